package completion

import (
	"context"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
)

// FragmentFunc receives every fragment as it arrives. Returning an error
// aborts the completion.
type FragmentFunc func(fragment string) error

type Aggregator struct {
	client llm.StreamingClient
	logger *zerolog.Logger
}

func NewAggregator(client llm.StreamingClient, logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		client: client,
		logger: logger,
	}
}

// Complete drives one stream to its end and returns the concatenated text.
func (a *Aggregator) Complete(ctx context.Context, request models.GenerationRequest) (string, error) {
	return a.CompleteWithCallback(ctx, request, nil)
}

// CompleteWithCallback is Complete with a per-fragment hook. Any failure,
// including a zero-fragment stream, is a *models.GenerationError and no
// partial text is returned.
func (a *Aggregator) CompleteWithCallback(ctx context.Context, request models.GenerationRequest, onFragment FragmentFunc) (string, error) {
	start := time.Now()

	stream, err := a.client.Stream(ctx, request)
	if err != nil {
		return "", &models.GenerationError{Reason: "failed to open stream", Err: err}
	}
	defer func() {
		if err := stream.Close(); err != nil {
			a.logger.Debug().Err(err).Msg("failed to close completion stream")
		}
	}()

	var sb strings.Builder
	fragments := 0

	for stream.Next() {
		fragment := stream.Fragment()
		sb.WriteString(fragment)
		fragments++

		if onFragment != nil {
			if err := onFragment(fragment); err != nil {
				return "", &models.GenerationError{Reason: "fragment callback failed", Err: err}
			}
		}
	}

	if err := stream.Err(); err != nil {
		return "", &models.GenerationError{Reason: "stream terminated abnormally", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", &models.GenerationError{Reason: "cancelled", Err: err}
	}
	if fragments == 0 {
		return "", &models.GenerationError{Reason: "empty completion", Err: models.ErrNoFragments}
	}

	a.logger.Info().
		Str("model", request.ModelID).
		Int("fragments", fragments).
		Int("length", sb.Len()).
		Dur("duration", time.Since(start)).
		Msg("completion aggregated")

	return sb.String(), nil
}
