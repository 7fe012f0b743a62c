package testutils

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// testDB keeps test data away from db 0
const testDB = 15

// NewRedisClient connects to addr, flushes the test database and closes the
// client when the test ends. The test is skipped when Redis does not answer.
func NewRedisClient(t *testing.T, addr string) redis.UniversalClient {
	t.Helper()

	return connect(t, &redis.Options{Addr: addr, DB: testDB})
}

// RedisFromEnv connects to REDIS_URL, skipping the test when it is unset
func RedisFromEnv(t *testing.T) redis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err, "invalid REDIS_URL")
	opts.DB = testDB

	return connect(t, opts)
}

func connect(t *testing.T, opts *redis.Options) redis.UniversalClient {
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available at %s: %v", opts.Addr, err)
	}

	require.NoError(t, client.FlushDB(ctx).Err(), "failed to flush test Redis database")

	t.Cleanup(func() {
		_ = client.FlushDB(context.Background()).Err()
		_ = client.Close()
	})

	return client
}

// WaitForRedis polls addr until it answers PING or timeout passes
func WaitForRedis(ctx context.Context, addr string, timeout time.Duration) error {
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := client.Ping(ctx).Err(); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("redis at %s not ready after %v", addr, timeout)
		case <-ticker.C:
		}
	}
}
