package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
)

// SecurityQuestionCacheRepository caches password-reset security questions in
// Redis. Questions never change after registration, so the TTL only bounds
// memory, not staleness.
type SecurityQuestionCacheRepository struct {
	client *redis.Client
	exp    time.Duration
}

// NewSecurityQuestionCacheRepository creates a new repository instance with a TTL.
func NewSecurityQuestionCacheRepository(client *redis.Client, expiration time.Duration) *SecurityQuestionCacheRepository {
	return &SecurityQuestionCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// Get fetches a cached security question for a username. A cache miss returns
// an empty string with no error.
func (r *SecurityQuestionCacheRepository) Get(ctx context.Context, username string) (string, error) {
	key := fmt.Sprintf("security_question:%s", username)

	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}

	logger.Log.Infow("security question cache get",
		"key", key,
		"result", val,
		"error", err,
	)

	if err != nil {
		return "", err
	}

	return val, nil
}

// Set caches a security question for a username with expiration.
func (r *SecurityQuestionCacheRepository) Set(ctx context.Context, username, question string) error {
	key := fmt.Sprintf("security_question:%s", username)
	err := r.client.Set(ctx, key, question, r.exp).Err()

	logger.Log.Infow("security question cache set",
		"key", key,
		"result", "ok",
		"error", err,
	)

	return err
}
