package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Planner runs one request through the pipeline.
type Planner interface {
	Plan(ctx context.Context, req models.PlanRequest) (models.PlanResponse, error)
}

// PlanResult is published to the result stream for every consumed request.
// Error holds the user facing message when planning failed.
type PlanResult struct {
	models.PlanResponse
	SourceID string `json:"source_id"`
	Error    string `json:"error,omitempty"`
}

const claimBatch = 10

// ErrorMessage renders a planning failure for the result stream.
type ErrorMessage func(err error) string

type Consumer struct {
	client       redis.UniversalClient
	publisher    *Publisher
	stream       string
	resultStream string
	groupID      string
	consumerName string
	claimMinIdle time.Duration
	planner      Planner
	errorMessage ErrorMessage
	logger       *zerolog.Logger
}

func NewConsumer(client redis.UniversalClient, cfg *RedisStreamConfig, planner Planner, logger *zerolog.Logger) *Consumer {
	resultStream := cfg.ResultStream
	if resultStream == "" {
		resultStream = DefaultResultStream
	}
	claimMinIdle := cfg.ClaimMinIdle
	if claimMinIdle <= 0 {
		claimMinIdle = DefaultClaimMinIdle
	}

	return &Consumer{
		client:       client,
		publisher:    NewPublisher(client, cfg.ResultMaxLen),
		stream:       cfg.Stream,
		resultStream: resultStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		claimMinIdle: claimMinIdle,
		planner:      planner,
		errorMessage: func(err error) string { return err.Error() },
		logger:       logger,
	}
}

// WithErrorMessage replaces the renderer used for failed requests.
func (c *Consumer) WithErrorMessage(fn ErrorMessage) *Consumer {
	c.errorMessage = fn
	return c
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s on %s: %w", c.groupID, c.stream, err)
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("result_stream", c.resultStream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("consumer started")

	var lastClaim time.Time

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if time.Since(lastClaim) >= c.claimMinIdle {
			lastClaim = time.Now()
			if _, err := c.reclaim(ctx); err != nil && ctx.Err() == nil {
				c.logger.Error().Err(err).Msg("failed to reclaim pending messages")
			}
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("failed to read from stream")
			continue
		}

		for _, stream := range msgs {
			for _, msg := range stream.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Debug().Str("id", msg.ID).Msg("message received")

	req, err := decodeRequest(msg.Values)
	if err != nil {
		// Undecodable messages are acked so they are not redelivered forever.
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("failed to decode message")
		c.ack(ctx, msg.ID)
		return
	}

	result := c.handle(ctx, msg.ID, req)

	if _, err := c.publisher.Publish(ctx, c.resultStream, result); err != nil {
		// Left pending; reclaim picks it up once it has been idle long enough.
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("failed to publish result")
		return
	}

	c.ack(ctx, msg.ID)
}

// reclaim takes over messages that have sat pending longer than claimMinIdle,
// including ones this consumer failed to publish, and processes them again.
func (c *Consumer) reclaim(ctx context.Context) (int, error) {
	start := "0-0"
	claimed := 0

	for {
		msgs, next, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   c.stream,
			Group:    c.groupID,
			MinIdle:  c.claimMinIdle,
			Start:    start,
			Count:    claimBatch,
			Consumer: c.consumerName,
		}).Result()
		if err != nil {
			return claimed, fmt.Errorf("claim pending messages on %s: %w", c.stream, err)
		}

		for _, msg := range msgs {
			c.process(ctx, msg)
		}
		claimed += len(msgs)

		if next == "0-0" || next == "" || len(msgs) == 0 {
			break
		}
		start = next
	}

	if claimed > 0 {
		c.logger.Info().Int("claimed", claimed).Str("stream", c.stream).Msg("reclaimed pending messages")
	}
	return claimed, nil
}

func (c *Consumer) handle(ctx context.Context, msgID string, req models.PlanRequest) PlanResult {
	resp, err := c.planner.Plan(ctx, req)
	result := PlanResult{PlanResponse: resp, SourceID: msgID}
	if result.RequestID == "" {
		result.RequestID = req.RequestID
	}

	if err != nil {
		result.Error = c.errorMessage(err)
		c.logger.Warn().
			Err(err).
			Str("id", msgID).
			Str("request_id", result.RequestID).
			Msg("plan request failed")
		return result
	}

	c.logger.Info().
		Str("id", msgID).
		Str("request_id", result.RequestID).
		Str("agent", string(result.Agent)).
		Msg("plan request complete")
	return result
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("failed to ack message")
	}
}

func decodeRequest(values map[string]any) (models.PlanRequest, error) {
	payload, ok := values[PayloadField].(string)
	if !ok {
		return models.PlanRequest{}, fmt.Errorf("missing %s field", PayloadField)
	}

	var req models.PlanRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return models.PlanRequest{}, fmt.Errorf("decode payload: %w", err)
	}
	return req, nil
}
