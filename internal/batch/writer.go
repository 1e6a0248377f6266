package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Summary aggregates a finished batch.
type Summary struct {
	Total         int                          `json:"total"`
	Succeeded     int                          `json:"succeeded"`
	Failed        int                          `json:"failed"`
	ByAgent       map[models.AgentCategory]int `json:"by_agent"`
	TotalDuration time.Duration                `json:"-"`
	AvgLatencyMS  int64                        `json:"avg_latency_ms"`
}

func (s *Summary) Add(r Result) {
	s.Total++
	if r.Failed() {
		s.Failed++
		return
	}
	s.Succeeded++
	s.ByAgent[r.Agent]++
	s.TotalDuration += r.Duration
	s.AvgLatencyMS = (s.TotalDuration / time.Duration(s.Succeeded)).Milliseconds()
}

// Writer emits results as JSONL, or collects them and emits a single summary
// document on Close.
type Writer struct {
	w       io.Writer
	format  string
	encoder *json.Encoder
	summary Summary
	logger  *zerolog.Logger
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	return &Writer{
		w:       w,
		format:  format,
		encoder: json.NewEncoder(w),
		summary: Summary{ByAgent: map[models.AgentCategory]int{}},
		logger:  logger,
	}, nil
}

func (w *Writer) Write(r Result) error {
	w.summary.Add(r)

	if w.format != FormatJSONL {
		return nil
	}
	if err := w.encoder.Encode(r); err != nil {
		return fmt.Errorf("write result for line %d: %w", r.Line, err)
	}
	return nil
}

func (w *Writer) Summary() Summary {
	return w.summary
}

func (w *Writer) Close() error {
	w.logger.Info().
		Int("total", w.summary.Total).
		Int("succeeded", w.summary.Succeeded).
		Int("failed", w.summary.Failed).
		Msg("batch output closed")

	if w.format != FormatSummary {
		return nil
	}

	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	return enc.Encode(w.summary)
}
