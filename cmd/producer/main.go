package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	red "github.com/povarna/generative-ai-agents/planner-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/planner-agent/internal/stream/redis"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	data := flag.String("d", "", "Inline JSON PlanRequest")
	stream := flag.String("stream", redis.DefaultRequestStream, "Stream name")
	flag.Parse()

	if *data == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '{\"message\":\"museums to visit in Paris\"}'")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	var req models.PlanRequest
	if err := json.Unmarshal([]byte(data), &req); err != nil {
		return fmt.Errorf("invalid plan request: %w", err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := context.Background()
	client, err := red.Connect(ctx, red.Options{
		Addr:       addr,
		Password:   os.Getenv("REDIS_PASSWORD"),
		MaxRetries: 3,
	}, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := redis.NewPublisher(client, 0).Publish(ctx, stream, req)
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("request_id", req.RequestID).Msg("Published successfully!")
	return nil
}
