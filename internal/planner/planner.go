package planner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/rs/zerolog"
)

//go:generate mockgen -destination=mocks/mock_planner.go -package=mocks . Classifier,Dispatcher,Formatter,Tracer

// Classifier maps user input to an agent category
type Classifier interface {
	Classify(input string) models.AgentCategory
}

// Dispatcher runs the agent for a category
type Dispatcher interface {
	Dispatch(ctx context.Context, category models.AgentCategory, rc models.RequestContext, onFragment completion.FragmentFunc) (models.AgentReply, error)
}

// Formatter wraps generated text for the caller
type Formatter interface {
	Format(rc models.RequestContext, text string) string
}

// Tracer records the request outcome without blocking
type Tracer interface {
	Trace(rc models.RequestContext, agent models.AgentCategory, output string)
}

type Planner struct {
	classifier         Classifier
	dispatcher         Dispatcher
	formatter          Formatter
	tracer             Tracer
	defaultTemperature float64
	defaultMaxTokens   int
	now                func() time.Time
	logger             *zerolog.Logger
}

func New(
	classifier Classifier,
	dispatcher Dispatcher,
	formatter Formatter,
	tracer Tracer,
	promptCfg config.PromptConfig,
	logger *zerolog.Logger,
) *Planner {
	return &Planner{
		classifier:         classifier,
		dispatcher:         dispatcher,
		formatter:          formatter,
		tracer:             tracer,
		defaultTemperature: promptCfg.DefaultTemperature,
		defaultMaxTokens:   promptCfg.MaxTokens,
		now:                time.Now,
		logger:             logger,
	}
}

func (p *Planner) Plan(ctx context.Context, req models.PlanRequest) (models.PlanResponse, error) {
	return p.PlanStream(ctx, req, nil)
}

// PlanStream runs the pipeline and forwards generated fragments to onFragment
// as they arrive. The returned response always carries the request id, even
// on error.
func (p *Planner) PlanStream(ctx context.Context, req models.PlanRequest, onFragment completion.FragmentFunc) (models.PlanResponse, error) {
	if err := req.Validate(); err != nil {
		return models.PlanResponse{}, err
	}

	rc := p.RequestContext(req)
	result := models.PlanResponse{
		RequestID:   rc.RequestID,
		Timestamp:   rc.Timestamp,
		Temperature: rc.Temperature,
	}

	category := p.classifier.Classify(rc.UserInput)
	p.logger.Info().
		Str("request_id", rc.RequestID).
		Str("category", string(category)).
		Float64("temperature", rc.Temperature).
		Int("max_tokens", rc.MaxTokens).
		Msg("request classified")

	reply, err := p.dispatcher.Dispatch(ctx, category, rc, onFragment)
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("request_id", rc.RequestID).
			Str("category", string(category)).
			Msg("planning failed")
		p.tracer.Trace(rc, category.Handler(), UserMessage(err))
		return result, err
	}

	text := reply.Text
	if reply.Generated {
		text = p.formatter.Format(rc, reply.Text)
	}

	p.tracer.Trace(rc, reply.Category, text)

	result.Agent = reply.Category
	result.Response = text
	return result, nil
}

// RequestContext fills request defaults. The id is a random UUID unless the
// caller supplied one.
func (p *Planner) RequestContext(req models.PlanRequest) models.RequestContext {
	rc := models.RequestContext{
		RequestID:   req.RequestID,
		Timestamp:   req.Timestamp,
		Temperature: p.defaultTemperature,
		MaxTokens:   req.MaxTokens,
		UserInput:   req.Message,
	}

	if rc.RequestID == "" {
		rc.RequestID = uuid.NewString()
	}
	if rc.Timestamp == 0 {
		rc.Timestamp = p.now().Unix()
	}
	if req.Temperature != nil {
		rc.Temperature = *req.Temperature
	}
	if rc.MaxTokens == 0 {
		rc.MaxTokens = p.defaultMaxTokens
	}

	return rc
}
