package mcpadapter

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

const (
	ServerName = "planner-agent"
	ToolName   = "plan_day"
)

// PlanInput is the MCP tool input schema (matches HTTP API field names).
type PlanInput struct {
	Message     string   `json:"message" jsonschema:"free-form request, e.g. museums to visit in Paris"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"sampling temperature 0.0-1.0 (default: 0.7)"`
	RequestID   string   `json:"request_id,omitempty" jsonschema:"caller supplied request id (default: random UUID)"`
	MaxTokens   int      `json:"max_tokens,omitempty" jsonschema:"output token budget"`
}

type Planner interface {
	Plan(ctx context.Context, req models.PlanRequest) (models.PlanResponse, error)
}

type ToolHandler func(context.Context, *mcp.CallToolRequest, PlanInput) (*mcp.CallToolResult, models.PlanResponse, error)

// NewPlanHandler returns a tool handler backed by the planner. userMessage
// renders failures so internal details stay out of tool results.
func NewPlanHandler(planner Planner, userMessage func(error) string) ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PlanInput) (*mcp.CallToolResult, models.PlanResponse, error) {
		return PlanDay(ctx, planner, userMessage, input)
	}
}

// PlanDay runs the pipeline for one tool call.
func PlanDay(
	ctx context.Context,
	planner Planner,
	userMessage func(error) string,
	input PlanInput,
) (*mcp.CallToolResult, models.PlanResponse, error) {
	resp, err := planner.Plan(ctx, models.PlanRequest{
		Message:     input.Message,
		Temperature: input.Temperature,
		RequestID:   input.RequestID,
		MaxTokens:   input.MaxTokens,
	})
	if err != nil {
		return nil, models.PlanResponse{}, errors.New(userMessage(err))
	}

	return nil, resp, nil
}

func NewServer(planner Planner, userMessage func(error) string, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Plan a day out: classifies the request, looks up matching places and returns three suggestions with a 30 minute schedule",
	}, mcp.ToolHandlerFor[PlanInput, models.PlanResponse](NewPlanHandler(planner, userMessage)))

	return server
}
