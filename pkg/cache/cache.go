package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redhat-data-and-ai/usermgmt/pkg/cache/inmemory"
	"github.com/redhat-data-and-ai/usermgmt/pkg/cache/redis"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Cache is the key/value abstraction the cache-backed record accessor stores its data in.
// Get returns structs.ErrCacheMiss when the key does not exist.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string) (interface{}, error)
	Delete(ctx context.Context, key string) error
	Disconnect() error
}

// Config selects and configures a cache driver
type Config struct {
	Driver   string           `mapstructure:"driver" yaml:"driver"`
	InMemory *inmemory.Config `mapstructure:"inmemory" yaml:"inmemory"`
	Redis    *redis.Config    `mapstructure:"redis" yaml:"redis"`
}

// New creates the cache driver named in config
func New(config *Config) (Cache, error) {
	if config == nil {
		return nil, fmt.Errorf("cache config must not be nil")
	}

	switch config.Driver {
	case DriverMemory, "":
		c, err := inmemory.NewCache(config.InMemory)
		if err != nil {
			return nil, err
		}
		return c, nil
	case DriverRedis:
		c, err := redis.NewCache(config.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", config.Driver)
	}
}

var (
	_ Cache = (*inmemory.InMemoryCache)(nil)
	_ Cache = (*redis.RedisCache)(nil)
)
