package inmemory

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

// Config holds the expiration settings for the in-memory driver, in seconds.
// Negative values disable expiration and the cleanup janitor respectively.
type Config struct {
	DefaultExpiration int32 `mapstructure:"defaultExpiration" yaml:"defaultExpiration"`
	CleanupInterval   int32 `mapstructure:"cleanupInterval" yaml:"cleanupInterval"`
}

// InMemoryCache is a process-local cache driver backed by go-cache
type InMemoryCache struct {
	client *gocache.Cache
}

// NewCache inits an InMemoryCache instance
func NewCache(config *Config) (*InMemoryCache, error) {
	if config == nil {
		config = getDefaultConfig()
	}
	return &InMemoryCache{
		client: gocache.New(seconds(config.DefaultExpiration), seconds(config.CleanupInterval)),
	}, nil
}

func getDefaultConfig() *Config {
	return &Config{
		DefaultExpiration: -1,
		CleanupInterval:   -1,
	}
}

func seconds(s int32) time.Duration {
	if s < 0 {
		return gocache.NoExpiration
	}
	return time.Duration(s) * time.Second
}

// Set - sets a key value pair; a zero ttl uses the configured default expiration
func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.client.Set(key, value, ttl)
	return nil
}

// Get - gets a value from the cache
func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, error) {
	val, ok := c.client.Get(key)
	if !ok {
		return "", fmt.Errorf("key %s: %w", key, structs.ErrCacheMiss)
	}
	return val, nil
}

// Delete - deletes a key from the cache
func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.client.Delete(key)
	return nil
}

// Disconnect drops every entry
func (c *InMemoryCache) Disconnect() error {
	c.client.Flush()
	return nil
}
