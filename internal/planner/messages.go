package planner

import (
	"context"
	"errors"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

// UserMessage turns a pipeline error into a short explanation that is safe to
// show to the caller. Provider payloads never leak through.
func UserMessage(err error) string {
	var lookupErr *models.LookupError
	var genErr *models.GenerationError

	switch {
	case err == nil:
		return ""
	case IsInvalidRequest(err):
		return "Invalid request: " + err.Error() + "."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was cancelled before a plan was ready."
	case errors.As(err, &lookupErr):
		return "We couldn't look up places right now. Please try again later."
	case errors.As(err, &genErr):
		return "We couldn't generate a plan right now. Please try again later."
	default:
		return "Something went wrong while planning your day. Please try again."
	}
}

// IsInvalidRequest reports whether err is a request validation error.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, models.ErrEmptyMessage) ||
		errors.Is(err, models.ErrInvalidTemperature) ||
		errors.Is(err, models.ErrInvalidMaxTokens) ||
		errors.Is(err, models.ErrInvalidTimestamp)
}
