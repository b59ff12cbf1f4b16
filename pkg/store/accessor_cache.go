package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redhat-data-and-ai/usermgmt/pkg/cache"
	"github.com/redhat-data-and-ai/usermgmt/pkg/cache/redis"
	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
)

const cacheKeyPrefix = "usermgmt:"

// CacheAccessor keeps records as one JSON array value under a single cache key.
// Values are written with a zero ttl: no expiry on redis, the driver default on memory.
type CacheAccessor struct {
	mu    sync.Mutex
	cache cache.Cache
	key   string
}

// NewCacheAccessor returns an accessor storing records under the prefixed resource name
func NewCacheAccessor(c cache.Cache, resource string) (*CacheAccessor, error) {
	if c == nil {
		return nil, errors.New("cache must not be nil")
	}
	if resource == "" {
		return nil, errors.New("resource name must not be empty")
	}
	return &CacheAccessor{cache: c, key: cacheKeyPrefix + resource}, nil
}

// Identify returns a URL-like name of the cache entry
func (a *CacheAccessor) Identify() string {
	if rc, ok := a.cache.(*redis.RedisCache); ok {
		return fmt.Sprintf("redis://%s/%s", rc.Addr(), a.key)
	}
	return fmt.Sprintf("memory://%s", a.key)
}

func (a *CacheAccessor) ReadRecords(ctx context.Context, out interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	val, err := a.cache.Get(ctx, a.key)
	if err != nil {
		if errors.Is(err, structs.ErrCacheMiss) {
			logger.Logger(ctx).WithField("resource", a.Identify()).Debug("cache entry does not exist yet")
			return nil
		}
		return fmt.Errorf("%w %s: %w", structs.ErrResourceRead, a.Identify(), err)
	}

	var data []byte
	switch v := val.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("%w %s: unexpected value type %T", structs.ErrResourceRead, a.Identify(), val)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w %s: %w", structs.ErrResourceRead, a.Identify(), err)
	}
	return nil
}

func (a *CacheAccessor) WriteRecords(ctx context.Context, records interface{}) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w %s: %w", structs.ErrResourceWrite, a.Identify(), err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.cache.Set(ctx, a.key, string(data), 0); err != nil {
		return fmt.Errorf("%w %s: %w", structs.ErrResourceWrite, a.Identify(), err)
	}
	return nil
}
