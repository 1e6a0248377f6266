package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/classifier"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/completion"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/config"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm/anthropic"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm/gemini"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/llm/openai"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/places"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/planner"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/prompt"
	redisconn "github.com/povarna/generative-ai-agents/planner-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Planner       *planner.Planner
	Tracer        *response.Tracer
	PlannerConfig *config.PlannerConfig
	Redis         *redis.Client
	Logger        *zerolog.Logger

	closers []func() error
}

// Close waits for in-flight trace emissions and releases clients.
func (d *Dependencies) Close() error {
	d.Tracer.Wait()

	var errs []error
	for _, closeFn := range d.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	if cfg.PlacesAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_PLACES_API_KEY is required")
	}

	plannerCfg, err := config.LoadPlannerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load planner config: %w", err)
	}

	deps := &Dependencies{
		PlannerConfig: plannerCfg,
		Logger:        logger,
	}

	// Redis is optional: it backs the place cache and the trace stream.
	if cfg.RedisAddr != "" {
		client, err := redisconn.Connect(ctx, redisconn.Options{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			MaxRetries: cfg.RedisRetries,
		}, logger)
		if err != nil {
			return nil, err
		}
		deps.Redis = client
		deps.closers = append(deps.closers, client.Close)
	}

	llmClient, err := createLLMClient(ctx, cfg.LLMProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLMProvider, err)
	}
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		deps.closers = append(deps.closers, closer.Close)
	}

	var detailCache places.DetailCache
	if deps.Redis != nil && plannerCfg.Places.CacheTTL > 0 {
		detailCache = cache.NewPlaceCache(deps.Redis, plannerCfg.Places.CacheTTL)
	}

	placesClient := places.NewClient(places.ClientConfig{
		BaseURL:       plannerCfg.Places.BaseURL,
		APIKey:        cfg.PlacesAPIKey,
		Timeout:       plannerCfg.Places.Timeout,
		Concurrency:   plannerCfg.Places.Concurrency,
		MaxCandidates: plannerCfg.Places.MaxCandidates,
	}, detailCache, logger)

	promptBuilder, err := prompt.NewBuilder(plannerCfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt template: %w", err)
	}

	aggregator := completion.NewAggregator(llmClient, logger)

	dispatcher, err := agent.NewDispatcher(logger,
		agent.NewTravelAgent(placesClient, promptBuilder, aggregator, plannerCfg.Places, plannerCfg.Prompt, logger),
		agent.NewMusicAgent(plannerCfg.Agents.Music.Placeholder),
		agent.NewFoodAgent(plannerCfg.Agents.Food.Placeholder),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build dispatcher: %w", err)
	}

	var sinks []response.Sink
	if deps.Redis != nil && cfg.TraceStream != "" {
		sinks = append(sinks, response.NewRedisStreamSink(deps.Redis, cfg.TraceStream, cfg.TraceMaxLen))
	}
	deps.Tracer = response.NewTracer(logger, plannerCfg.Response.TraceOutputLimit, sinks...)

	deps.Planner = planner.New(
		classifier.New(plannerCfg.Classifier),
		dispatcher,
		response.NewFormatter(plannerCfg.Response),
		deps.Tracer,
		plannerCfg.Prompt,
		logger,
	)

	logger.Info().
		Str("provider", cfg.LLMProvider).
		Bool("place_cache", detailCache != nil).
		Int("trace_sinks", len(sinks)).
		Msg("dependencies wired")

	return deps, nil
}

func createLLMClient(ctx context.Context, provider string, cfg *Config) (llm.StreamingClient, error) {
	switch provider {
	case ProviderBedrock:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case ProviderOpenAI, "":
		return openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModelID)
	case ProviderAnthropic:
		return anthropic.NewClient(cfg.AnthropicKey, cfg.AnthropicModelID)
	case ProviderGemini:
		return gemini.NewClient(ctx, cfg.GeminiKey, cfg.GeminiModelID)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
