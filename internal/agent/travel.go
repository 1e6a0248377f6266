package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
)

// TravelAgent runs the full lookup, prompt and completion path.
type TravelAgent struct {
	places    PlaceSearcher
	prompts   PromptBuilder
	completer Completer
	location  *models.LatLng
	radius    int
	emptyMode config.EmptyPlacesMode
	noPlaces  string
	logger    *zerolog.Logger
}

func NewTravelAgent(
	places PlaceSearcher,
	prompts PromptBuilder,
	completer Completer,
	placesCfg config.PlacesConfig,
	promptCfg config.PromptConfig,
	logger *zerolog.Logger,
) *TravelAgent {
	return &TravelAgent{
		places:    places,
		prompts:   prompts,
		completer: completer,
		location:  placesCfg.Location,
		radius:    placesCfg.RadiusMeters,
		emptyMode: promptCfg.EmptyPlaces,
		noPlaces:  promptCfg.NoPlacesMessage,
		logger:    logger,
	}
}

func (a *TravelAgent) Category() models.AgentCategory {
	return models.AgentTravel
}

func (a *TravelAgent) Handle(ctx context.Context, rc models.RequestContext, onFragment completion.FragmentFunc) (models.AgentReply, error) {
	places, err := a.places.Search(ctx, models.PlaceQuery{
		Text:         rc.UserInput,
		Location:     a.location,
		RadiusMeters: a.radius,
	})
	if err != nil {
		return models.AgentReply{}, err
	}

	if len(places) == 0 {
		a.logger.Warn().
			Str("request_id", rc.RequestID).
			Str("mode", string(a.emptyMode)).
			Err(models.ErrNoPlacesFound).
			Msg("no places for request")

		if a.emptyMode != config.EmptyPlacesGenerate {
			return models.AgentReply{
				Category:  models.AgentTravel,
				Text:      a.noPlaces,
				Generated: false,
			}, nil
		}
	}

	request, err := a.prompts.Build(rc, places)
	if err != nil {
		return models.AgentReply{}, fmt.Errorf("failed to build prompt: %w", err)
	}

	text, err := a.completer.CompleteWithCallback(ctx, request, onFragment)
	if err != nil {
		var genErr *models.GenerationError
		if !errors.As(err, &genErr) {
			err = &models.GenerationError{Reason: "completion failed", Err: err}
		}
		return models.AgentReply{}, err
	}

	return models.AgentReply{
		Category:  models.AgentTravel,
		Text:      text,
		Generated: true,
	}, nil
}
