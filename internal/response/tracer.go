package response

import (
	"context"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
)

const defaultSinkTimeout = 2 * time.Second

// Record is one trace emission, correlated by request id.
type Record struct {
	RequestID   string               `json:"request_id"`
	Timestamp   int64                `json:"timestamp"`
	Temperature float64              `json:"temperature"`
	Agent       models.AgentCategory `json:"agent"`
	Input       string               `json:"input"`
	Output      string               `json:"output"`
}

// Sink receives trace records in the background. Errors are logged and
// dropped.
type Sink interface {
	Publish(ctx context.Context, record Record) error
}

type Tracer struct {
	logger      *zerolog.Logger
	sinks       []Sink
	outputLimit int
	sinkTimeout time.Duration
	wg          sync.WaitGroup
}

func NewTracer(logger *zerolog.Logger, outputLimit int, sinks ...Sink) *Tracer {
	return &Tracer{
		logger:      logger,
		sinks:       sinks,
		outputLimit: outputLimit,
		sinkTimeout: defaultSinkTimeout,
	}
}

// Trace logs the record and hands it to every sink without waiting. It never
// panics and never returns an error.
func (t *Tracer) Trace(rc models.RequestContext, agent models.AgentCategory, output string) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Interface("panic", r).Msg("trace emission panicked")
		}
	}()

	record := Record{
		RequestID:   rc.RequestID,
		Timestamp:   rc.Timestamp,
		Temperature: rc.Temperature,
		Agent:       agent,
		Input:       rc.UserInput,
		Output:      truncate(output, t.outputLimit),
	}

	t.logger.Info().
		Str("request_id", record.RequestID).
		Str("agent", string(record.Agent)).
		Str("input", record.Input).
		Str("output", record.Output).
		Msg("request traced")

	for _, sink := range t.sinks {
		t.wg.Add(1)
		go t.publish(sink, record)
	}
}

// Wait blocks until background sink publications finish.
func (t *Tracer) Wait() {
	t.wg.Wait()
}

func (t *Tracer) publish(sink Sink, record Record) {
	defer t.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error().Interface("panic", r).Str("request_id", record.RequestID).Msg("trace sink panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), t.sinkTimeout)
	defer cancel()

	if err := sink.Publish(ctx, record); err != nil {
		t.logger.Warn().Err(err).Str("request_id", record.RequestID).Msg("trace sink publish failed")
	}
}

// truncate keeps the first limit runes. A limit below one disables it.
func truncate(s string, limit int) string {
	if limit < 1 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
