package domain

import (
	"context"
	"time"
)

// Cache is a read-through cache port used by the public catalog. Get returns
// false when the key is absent; cache failures are reported as errors and
// callers fall back to the database.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}
