package response

import (
	"strings"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
)

type Formatter struct {
	preamble         string
	includeRequestID bool
}

func NewFormatter(cfg config.ResponseConfig) *Formatter {
	return &Formatter{
		preamble:         cfg.Preamble,
		includeRequestID: cfg.IncludeRequestID,
	}
}

// Format prepends the preamble exactly once. The completion text is never
// inspected.
func (f *Formatter) Format(rc models.RequestContext, text string) string {
	var sb strings.Builder
	sb.Grow(len(f.preamble) + len(text) + len(rc.RequestID) + 20)

	sb.WriteString(f.preamble)
	if f.includeRequestID && rc.RequestID != "" {
		sb.WriteString("\n(request ")
		sb.WriteString(rc.RequestID)
		sb.WriteString(")")
	}
	sb.WriteString("\n\n")
	sb.WriteString(text)

	return sb.String()
}
