package cache

import (
	"context"
	"time"

	"conventionlist/internal/domain"
)

// noopCache is a domain.Cache that stores nothing. Used when Redis is not
// configured or unreachable.
type noopCache struct{}

func NewNoopCache() domain.Cache {
	return noopCache{}
}

func (noopCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (noopCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}
