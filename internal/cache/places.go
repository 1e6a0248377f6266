package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/planner-agent/internal/models"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "planner:place:"

// PlaceCache keeps enriched place details in Redis so repeated searches for
// the same area skip the detail endpoint.
type PlaceCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewPlaceCache(client redis.Cmdable, ttl time.Duration) *PlaceCache {
	return &PlaceCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *PlaceCache) Get(ctx context.Context, placeID string) (models.Place, bool, error) {
	data, err := c.client.Get(ctx, Key(placeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Place{}, false, nil
		}
		return models.Place{}, false, fmt.Errorf("failed to read place %s from cache: %w", placeID, err)
	}

	var place models.Place
	if err := json.Unmarshal(data, &place); err != nil {
		return models.Place{}, false, fmt.Errorf("failed to decode cached place %s: %w", placeID, err)
	}

	return place, true, nil
}

func (c *PlaceCache) Set(ctx context.Context, placeID string, place models.Place) error {
	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("failed to encode place %s: %w", placeID, err)
	}

	if err := c.client.Set(ctx, Key(placeID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write place %s to cache: %w", placeID, err)
	}

	return nil
}

func Key(placeID string) string {
	return keyPrefix + placeID
}
