package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PayloadField is the stream entry field that carries the JSON document.
const PayloadField = "payload"

// Publisher appends JSON documents to a stream.
type Publisher struct {
	client redis.Cmdable
	maxLen int64
}

func NewPublisher(client redis.Cmdable, maxLen int64) *Publisher {
	return &Publisher{client: client, maxLen: maxLen}
}

// Publish encodes v and appends it to stream, returning the entry id.
func (p *Publisher) Publish(ctx context.Context, stream string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{PayloadField: string(data)},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("xadd %s: %w", stream, err)
	}
	return id, nil
}
