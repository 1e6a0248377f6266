package stream

import (
	"context"
	"fmt"

	redisconn "github.com/povarna/generative-ai-agents/planner-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

type StreamConfig struct {
	Provider    string // only redis today
	RedisConfig *redis.RedisStreamConfig
	// ErrorMessage renders planning failures into results; nil keeps err.Error().
	ErrorMessage func(error) string
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	planner redis.Planner,
	logger *zerolog.Logger,
) (StreamConsumer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("stream config required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := redisconn.Connect(ctx, redisconn.Options{
			Addr:       cfg.RedisConfig.RedisAddr,
			Password:   cfg.RedisConfig.RedisPassword,
			MaxRetries: 5,
		}, logger)
		if err != nil {
			return nil, err
		}

		consumer := redis.NewConsumer(client, cfg.RedisConfig, planner, logger)
		if cfg.ErrorMessage != nil {
			consumer.WithErrorMessage(cfg.ErrorMessage)
		}
		return consumer, nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
