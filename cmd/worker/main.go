package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/planner"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/setup/logger"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/stream"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()
	appLogger := logger.New(cfg.LogLevel)

	if cfg.RedisAddr == "" {
		log.Fatal().Msg("REDIS_ADDR is required for the worker")
	}

	deps, err := setup.Wire(ctx, cfg, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.Close()

	redisCfg := redis.NewRedisStreamConfig(
		cfg.RedisAddr,
		cfg.RedisPassword,
		cfg.RequestStream,
		cfg.ConsumerGroup,
		cfg.ConsumerName,
	)
	redisCfg.ResultStream = cfg.ResultStream
	redisCfg.ResultMaxLen = cfg.ResultMaxLen
	redisCfg.ClaimMinIdle = time.Duration(cfg.ClaimIdleSecs) * time.Second

	streamCfg := &stream.StreamConfig{
		Provider:     os.Getenv("STREAM_PROVIDER"),
		RedisConfig:  redisCfg,
		ErrorMessage: planner.UserMessage,
	}

	consumer, err := stream.NewStreamConsumer(ctx, streamCfg, deps.Planner, &appLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	if err := consumer.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			appLogger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")
	<-done

	if err := consumer.Stop(); err != nil {
		log.Warn().Err(err).Msg("Failed to stop consumer")
	}

	log.Info().Msg("Planner worker stopped")
}
