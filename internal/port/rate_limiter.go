package port

import "context"

// RateLimiter decides whether a keyed request is within quota.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
