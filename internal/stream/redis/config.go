package redis

import "time"

const (
	DefaultRequestStream = "planner:requests"
	DefaultResultStream  = "planner:results"
	DefaultGroup         = "planner-workers"
	DefaultClaimMinIdle  = time.Minute
)

type RedisStreamConfig struct {
	RedisAddr     string
	RedisPassword string
	Stream        string
	ResultStream  string
	Group         string
	ConsumerName  string
	// ResultMaxLen caps the result stream; 0 leaves it unbounded.
	ResultMaxLen int64
	// ClaimMinIdle is how long a delivered message stays pending before any
	// consumer in the group may claim it.
	ClaimMinIdle time.Duration
}

func NewRedisStreamConfig(redisAddr string, redisPassword string, stream string, group string, consumerName string) *RedisStreamConfig {
	return &RedisStreamConfig{
		RedisAddr:     redisAddr,
		RedisPassword: redisPassword,
		Stream:        stream,
		ResultStream:  DefaultResultStream,
		Group:         group,
		ConsumerName:  consumerName,
		ClaimMinIdle:  DefaultClaimMinIdle,
	}
}
