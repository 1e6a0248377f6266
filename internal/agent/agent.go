package agent

import (
	"context"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

// Agent is one behaviour the dispatcher can route to. onFragment may be nil;
// agents that generate text forward each streamed fragment to it.
type Agent interface {
	Category() models.AgentCategory
	Handle(ctx context.Context, rc models.RequestContext, onFragment completion.FragmentFunc) (models.AgentReply, error)
}

type PlaceSearcher interface {
	Search(ctx context.Context, query models.PlaceQuery) ([]models.Place, error)
}

type PromptBuilder interface {
	Build(rc models.RequestContext, places []models.Place) (models.GenerationRequest, error)
}

type Completer interface {
	CompleteWithCallback(ctx context.Context, request models.GenerationRequest, onFragment completion.FragmentFunc) (string, error)
}
