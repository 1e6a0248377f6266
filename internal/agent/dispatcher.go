package agent

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
)

type Dispatcher struct {
	agents map[models.AgentCategory]Agent
	logger *zerolog.Logger
}

// NewDispatcher registers every agent under its own category. The default
// category is served by the travel agent.
func NewDispatcher(logger *zerolog.Logger, agents ...Agent) (*Dispatcher, error) {
	registry := make(map[models.AgentCategory]Agent, len(agents)+1)
	for _, a := range agents {
		if _, exists := registry[a.Category()]; exists {
			return nil, fmt.Errorf("agent for category %q registered twice", a.Category())
		}
		registry[a.Category()] = a
	}

	travel, ok := registry[models.AgentTravel]
	if !ok {
		return nil, fmt.Errorf("travel agent is required")
	}
	registry[models.AgentDefault] = travel

	return &Dispatcher{
		agents: registry,
		logger: logger,
	}, nil
}

// Dispatch runs the agent for category. Errors from the agent are returned
// unchanged; no other agent is tried.
func (d *Dispatcher) Dispatch(ctx context.Context, category models.AgentCategory, rc models.RequestContext, onFragment completion.FragmentFunc) (models.AgentReply, error) {
	a, ok := d.agents[category]
	if !ok {
		return models.AgentReply{}, fmt.Errorf("no agent registered for category %q", category)
	}

	d.logger.Debug().
		Str("request_id", rc.RequestID).
		Str("category", string(category)).
		Str("agent", string(a.Category())).
		Msg("dispatching request")

	return a.Handle(ctx, rc, onFragment)
}
