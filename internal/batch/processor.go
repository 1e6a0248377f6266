package batch

import (
	"context"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Planner interface {
	Plan(ctx context.Context, req models.PlanRequest) (models.PlanResponse, error)
}

// Result is one output line. Results are emitted in completion order; Line
// ties a result back to its input.
type Result struct {
	Line int `json:"line"`
	models.PlanResponse
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"-"`
}

func (r Result) Failed() bool {
	return r.Error != ""
}

type Processor struct {
	planner      Planner
	workers      int
	errorMessage func(error) string
	logger       *zerolog.Logger
}

func NewProcessor(planner Planner, workers int, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		planner:      planner,
		workers:      workers,
		errorMessage: func(err error) string { return err.Error() },
		logger:       logger,
	}
}

// WithErrorMessage sets how planning failures are rendered into Result.Error.
func (p *Processor) WithErrorMessage(fn func(error) string) *Processor {
	p.errorMessage = fn
	return p
}

// Process plans every record with at most p.workers requests in flight. A
// failed record never stops the batch.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)

		for _, record := range records {
			if gctx.Err() != nil {
				break
			}

			g.Go(func() error {
				result := p.run(gctx, record)
				select {
				case out <- result:
				case <-gctx.Done():
				}
				return nil
			})
		}

		_ = g.Wait()
	}()

	return out
}

func (p *Processor) run(ctx context.Context, record InputRecord) Result {
	if record.Error != nil {
		return Result{
			Line:         record.LineNumber,
			PlanResponse: models.PlanResponse{RequestID: record.Request.RequestID},
			Error:        record.Error.Error(),
		}
	}

	start := time.Now()
	resp, err := p.planner.Plan(ctx, record.Request)
	result := Result{Line: record.LineNumber, PlanResponse: resp, Duration: time.Since(start)}
	if result.RequestID == "" {
		result.RequestID = record.Request.RequestID
	}

	if err != nil {
		result.Error = p.errorMessage(err)
		p.logger.Warn().
			Err(err).
			Int("line", record.LineNumber).
			Str("request_id", result.RequestID).
			Msg("batch record failed")
		return result
	}

	p.logger.Debug().
		Int("line", record.LineNumber).
		Str("request_id", result.RequestID).
		Dur("duration", result.Duration).
		Msg("batch record planned")
	return result
}
