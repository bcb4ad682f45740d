package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OneTimeCodeRepository keeps short lived sign-in secrets in Redis. Codes
// are consumed atomically so a secret can be exchanged at most once.
type OneTimeCodeRepository struct {
	client redis.UniversalClient
	prefix string
}

// NewOneTimeCodeRepository constructs the repository. Keys are namespaced
// under prefix.
func NewOneTimeCodeRepository(client redis.UniversalClient, prefix string) *OneTimeCodeRepository {
	if prefix == "" {
		prefix = "auth"
	}
	return &OneTimeCodeRepository{client: client, prefix: prefix}
}

func (r *OneTimeCodeRepository) key(kind, subject string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, kind, subject)
}

// Save stores value for subject, replacing any earlier secret and resetting
// its attempt counter.
func (r *OneTimeCodeRepository) Save(ctx context.Context, kind, subject, value string, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(kind, subject), value, ttl)
	pipe.Del(ctx, r.key(kind+":attempts", subject))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save %s code: %w", kind, err)
	}
	return nil
}

// Peek returns the stored value without consuming it. ok is false when no
// value is stored or it has expired.
func (r *OneTimeCodeRepository) Peek(ctx context.Context, kind, subject string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(kind, subject)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s code: %w", kind, err)
	}
	return value, true, nil
}

// Consume atomically reads and deletes the stored value.
func (r *OneTimeCodeRepository) Consume(ctx context.Context, kind, subject string) (string, bool, error) {
	value, err := r.client.GetDel(ctx, r.key(kind, subject)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("consume %s code: %w", kind, err)
	}
	return value, true, nil
}

// RegisterAttempt increments the attempt counter for subject and returns
// the new count. Each caller observes a distinct count. The counter expires
// with ttl.
func (r *OneTimeCodeRepository) RegisterAttempt(ctx context.Context, kind, subject string, ttl time.Duration) (int64, error) {
	key := r.key(kind+":attempts", subject)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("register %s attempt: %w", kind, err)
	}
	return incr.Val(), nil
}

// Discard removes any stored value for subject.
func (r *OneTimeCodeRepository) Discard(ctx context.Context, kind, subject string) error {
	if err := r.client.Del(ctx, r.key(kind, subject), r.key(kind+":attempts", subject)).Err(); err != nil {
		return fmt.Errorf("discard %s code: %w", kind, err)
	}
	return nil
}
