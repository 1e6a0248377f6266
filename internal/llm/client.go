package llm

import (
	"context"
	"errors"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

// ErrIncompleteStream is reported by a stream that ended without the
// provider's end-of-completion signal.
var ErrIncompleteStream = errors.New("stream ended before the completion finished")

// FragmentStream yields generated text in arrival order. Next blocks until a
// fragment arrives or the stream ends; Err reports why it ended early,
// including ErrIncompleteStream when the provider never signalled completion.
type FragmentStream interface {
	Next() bool
	Fragment() string
	Err() error
	Close() error
}

// StreamingClient opens one completion stream per call. Implementations make a
// single attempt and never retry.
type StreamingClient interface {
	Stream(ctx context.Context, request models.GenerationRequest) (FragmentStream, error)
}

// ResolveModel picks the provider specific model when one is configured and
// falls back to the model named in the request.
func ResolveModel(override string, request models.GenerationRequest) string {
	if override != "" {
		return override
	}
	return request.ModelID
}
