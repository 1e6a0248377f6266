package response

import (
	"context"
	"fmt"

	streamredis "github.com/povarna/generative-ai-agents/planner-agent/internal/stream/redis"
	"github.com/redis/go-redis/v9"
)

// RedisStreamSink appends trace records to a Redis stream using the same
// payload envelope as the request and result streams.
type RedisStreamSink struct {
	publisher *streamredis.Publisher
	stream    string
}

func NewRedisStreamSink(client redis.Cmdable, stream string, maxLen int64) *RedisStreamSink {
	return &RedisStreamSink{
		publisher: streamredis.NewPublisher(client, maxLen),
		stream:    stream,
	}
}

func (s *RedisStreamSink) Publish(ctx context.Context, record Record) error {
	if _, err := s.publisher.Publish(ctx, s.stream, record); err != nil {
		return fmt.Errorf("failed to publish trace: %w", err)
	}
	return nil
}
