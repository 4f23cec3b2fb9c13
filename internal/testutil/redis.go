package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// NewRedisTestClient starts an in-process Redis server and returns a client
// bound to it. The server stops when the test finishes.
func NewRedisTestClient(testingT *testing.T) *redis.Client {
	testingT.Helper()

	redisServer := miniredis.RunT(testingT)
	redisClient := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	testingT.Cleanup(func() {
		_ = redisClient.Close()
	})
	return redisClient
}
