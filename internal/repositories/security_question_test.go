package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestSecurityQuestionCacheRepository(t *testing.T) {
	ctx := context.Background()

	// Start Redis container
	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	err = rdb.Ping(ctx).Err()
	assert.NoError(t, err)

	repo := NewSecurityQuestionCacheRepository(rdb, 2*time.Second)

	t.Run("Set and Get question", func(t *testing.T) {
		err := repo.Set(ctx, "alice", "favourite colour?")
		assert.NoError(t, err)

		got, err := repo.Get(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, "favourite colour?", got)
	})

	t.Run("Miss returns empty string without error", func(t *testing.T) {
		got, err := repo.Get(ctx, "nonexistent")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Cached value expires", func(t *testing.T) {
		err := repo.Set(ctx, "bob", "first pet?")
		assert.NoError(t, err)

		// Wait for expiration (2s)
		time.Sleep(3 * time.Second)

		got, err := repo.Get(ctx, "bob")
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}
