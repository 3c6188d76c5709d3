package config

import (
	"github.com/redis/go-redis/v9"
)

// SetRedisClientForTest sets the Redis client for testing purposes.
// This function is only available for testing and should not be used in production code.
func SetRedisClientForTest(client *redis.Client) {
	redisMu.Lock()
	defer redisMu.Unlock()
	redisClient = client
}

// ResetRedisClientForTest clears the shared Redis client.
// This function is only available for testing and should not be used in production code.
func ResetRedisClientForTest() {
	SetRedisClientForTest(nil)
}
