package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/planner"
	"github.com/rs/zerolog"
)

type Planner interface {
	PlanStream(ctx context.Context, req models.PlanRequest, onFragment completion.FragmentFunc) (models.PlanResponse, error)
}

type Handler struct {
	planner Planner
	logger  *zerolog.Logger
}

func NewHandler(p Planner, logger *zerolog.Logger) *Handler {
	return &Handler{
		planner: p,
		logger:  logger,
	}
}

// POST /api/v1/plan
func (h *Handler) Plan(req *restful.Request, resp *restful.Response) {
	var planRequest models.PlanRequest
	if err := req.ReadEntity(&planRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, fmt.Errorf("invalid JSON body"), http.StatusBadRequest)
		return
	}

	result, err := h.planner.PlanStream(req.Request.Context(), planRequest, nil)
	if err != nil {
		middleware.HandleError(resp, errors.New(planner.UserMessage(err)), statusFor(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/chat
// Body: {"message": "..."}, the shape the chat page sends. Errors still carry
// a readable response field.
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	var chatRequest ChatRequest
	if err := req.ReadEntity(&chatRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse chat request")
		resp.WriteHeaderAndEntity(http.StatusBadRequest, ChatResponse{Response: "Please enter a message."})
		return
	}

	result, err := h.planner.PlanStream(req.Request.Context(), models.PlanRequest{Message: chatRequest.Message}, nil)
	if err != nil {
		resp.WriteHeaderAndEntity(statusFor(err), ChatResponse{Response: planner.UserMessage(err)})
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, ChatResponse{Response: result.Response})
}

// POST /api/v1/plan/stream
func (h *Handler) PlanStream(req *restful.Request, resp *restful.Response) {
	var planRequest models.PlanRequest
	if err := req.ReadEntity(&planRequest); err != nil {
		h.logger.Error().Err(err).Msg("Unable to parse plan request")
		middleware.HandleError(resp, fmt.Errorf("invalid JSON body"), http.StatusBadRequest)
		return
	}

	if err := planRequest.Validate(); err != nil {
		middleware.HandleError(resp, errors.New(planner.UserMessage(err)), http.StatusBadRequest)
		return
	}
	if planRequest.RequestID == "" {
		planRequest.RequestID = uuid.NewString()
	}

	writer := resp.ResponseWriter
	flusher, ok := writer.(http.Flusher)
	if !ok {
		middleware.HandleError(resp, fmt.Errorf("streaming not supported"), http.StatusInternalServerError)
		return
	}

	resp.AddHeader("Content-Type", "text/event-stream")
	resp.AddHeader("Cache-Control", "no-cache")
	resp.AddHeader("Connection", "keep-alive")
	resp.AddHeader("X-Accel-Buffering", "no")
	resp.WriteHeader(http.StatusOK)

	send := func(event SSEEvent) error {
		formatted, err := event.Format()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(writer, formatted); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	_ = send(SSEEvent{Event: "start", Data: StreamStartEvent{RequestID: planRequest.RequestID}})

	result, err := h.planner.PlanStream(req.Request.Context(), planRequest, func(fragment string) error {
		return send(SSEEvent{Event: "chunk", Data: StreamChunkEvent{Text: fragment}})
	})
	if err != nil {
		h.logger.Error().Err(err).Str("request_id", planRequest.RequestID).Msg("Streaming plan failed")
		_ = send(SSEEvent{Event: "error", Data: StreamErrorEvent{Error: planner.UserMessage(err)}})
		return
	}

	_ = send(SSEEvent{Event: "done", Data: StreamDoneEvent{Agent: result.Agent, Response: result.Response}})
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

func statusFor(err error) int {
	var lookupErr *models.LookupError
	var genErr *models.GenerationError

	switch {
	case planner.IsInvalidRequest(err):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	case errors.As(err, &lookupErr), errors.As(err, &genErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
