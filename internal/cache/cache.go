package cache

import (
	"context"
	"time"
)

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// LoginAttemptsKey builds the key tracking failed logins for a username
func LoginAttemptsKey(username string) string {
	return "auth:attempts:" + username
}
