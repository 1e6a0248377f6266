package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/plan").
			To(handler.Plan).
			Doc("Plan a day out").
			Metadata(restfulspec.KeyOpenAPITags, []string{"plan"}).
			Reads(models.PlanRequest{}).
			Writes(models.PlanResponse{}).
			Returns(200, "OK", models.PlanResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(502, "Upstream Failure", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/plan/stream").
			To(handler.PlanStream).
			Consumes(restful.MIME_JSON).
			Produces("text/event-stream").
			Doc("Plan a day out, streaming generated text as server-sent events").
			Metadata(restfulspec.KeyOpenAPITags, []string{"plan"}).
			Reads(models.PlanRequest{}).
			Returns(200, "OK", nil).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/chat").
			To(handler.Chat).
			Doc("Chat page endpoint").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Reads(ChatRequest{}).
			Writes(ChatResponse{}).
			Returns(200, "OK", ChatResponse{}).
			Returns(400, "Bad Request", ChatResponse{}).
			Returns(502, "Upstream Failure", ChatResponse{}))

	container.Add(ws)
}

// NewContainer wires filters, routes and the OpenAPI document.
func NewContainer(handler *Handler) *restful.Container {
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	RegisterRoutes(container, handler)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}))

	return container
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Planner Agent API",
			Description: "Day planner agent backed by place lookups and streamed completions",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "plan", Description: "Day planning"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Chat page compatibility"}},
	}
}
