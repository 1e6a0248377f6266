package agent

import (
	"context"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

// MusicAgent is a placeholder until music recommendations exist.
type MusicAgent struct {
	placeholder string
}

func NewMusicAgent(placeholder string) *MusicAgent {
	return &MusicAgent{placeholder: placeholder}
}

func (a *MusicAgent) Category() models.AgentCategory {
	return models.AgentMusic
}

func (a *MusicAgent) Handle(ctx context.Context, rc models.RequestContext, onFragment completion.FragmentFunc) (models.AgentReply, error) {
	return models.AgentReply{Category: models.AgentMusic, Text: a.placeholder}, nil
}

// FoodAgent is a placeholder until food recommendations exist.
type FoodAgent struct {
	placeholder string
}

func NewFoodAgent(placeholder string) *FoodAgent {
	return &FoodAgent{placeholder: placeholder}
}

func (a *FoodAgent) Category() models.AgentCategory {
	return models.AgentFood
}

func (a *FoodAgent) Handle(ctx context.Context, rc models.RequestContext, onFragment completion.FragmentFunc) (models.AgentReply, error) {
	return models.AgentReply{Category: models.AgentFood, Text: a.placeholder}, nil
}
