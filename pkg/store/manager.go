package store

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/usermgmt/pkg/cache"
	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
)

// ErrManagerClosed is returned by a Manager after Close
var ErrManagerClosed = errors.New("store manager is closed")

// Manager owns the current Store and replaces it when the configuration changes
type Manager struct {
	mu          sync.RWMutex
	store       *Store
	kv          cache.Cache
	cacheConfig cache.Config
	closed      bool
}

// NewManager builds the first Store from config
func NewManager(ctx context.Context, config Config, cacheConfig *cache.Config) (*Manager, error) {
	m := &Manager{}
	s, kv, err := m.build(ctx, config, cacheConfig)
	if err != nil {
		return nil, err
	}
	m.store, m.kv = s, kv
	if kv != nil {
		m.cacheConfig = *cacheConfig
	}
	return m, nil
}

// build creates a store for config. The current cache is handed to the new
// store when it can serve cacheConfig, a new cache is created otherwise.
func (m *Manager) build(ctx context.Context, config Config, cacheConfig *cache.Config) (*Store, cache.Cache, error) {
	if config.Driver != DriverCache {
		s, err := New(ctx, config, nil)
		return s, nil, err
	}

	if m.reusable(cacheConfig) {
		s, err := New(ctx, config, m.kv)
		return s, m.kv, err
	}

	kv, err := cache.New(cacheConfig)
	if err != nil {
		return nil, nil, err
	}
	s, err := New(ctx, config, kv)
	if err != nil {
		_ = kv.Disconnect()
		return nil, nil, err
	}
	return s, kv, nil
}

// reusable reports whether the current cache serves cacheConfig. An in-memory
// cache holds the only copy of its records, so it is kept for any memory config.
func (m *Manager) reusable(cacheConfig *cache.Config) bool {
	if m.kv == nil || cacheConfig == nil {
		return false
	}
	if isMemoryDriver(m.cacheConfig.Driver) && isMemoryDriver(cacheConfig.Driver) {
		return true
	}
	return reflect.DeepEqual(m.cacheConfig, *cacheConfig)
}

func isMemoryDriver(driver string) bool {
	return driver == cache.DriverMemory || driver == ""
}

// Store returns the current store
func (m *Manager) Store() *Store {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store
}

// Reconfigure flushes the current store and replaces it with one built from
// config. If the new store cannot be built the current one stays in place.
func (m *Manager) Reconfigure(ctx context.Context, config Config, cacheConfig *cache.Config) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"driver":  config.Driver,
		"dataDir": config.DataDir,
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrManagerClosed
	}

	if err := m.store.FlushIfDirty(ctx); err != nil {
		log.WithError(err).Error("failed to flush store before reconfiguration")
		return err
	}

	s, kv, err := m.build(ctx, config, cacheConfig)
	if err != nil {
		log.WithError(err).Error("failed to rebuild store, keeping current configuration")
		return err
	}

	old := m.kv
	m.store, m.kv = s, kv
	if kv != nil {
		m.cacheConfig = *cacheConfig
	} else {
		m.cacheConfig = cache.Config{}
	}
	if old != nil && old != kv {
		if err := old.Disconnect(); err != nil {
			log.WithError(err).Warn("failed to disconnect previous cache")
		}
	}

	log.WithField("cacheReused", old != nil && old == kv).Info("store reconfigured")
	return nil
}

// FlushIfDirty flushes the current store
func (m *Manager) FlushIfDirty(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrManagerClosed
	}
	return m.store.FlushIfDirty(ctx)
}

// Close flushes pending mutations and releases the cache connection.
// Closing twice is a no-op.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	err := m.store.FlushIfDirty(ctx)
	if m.kv != nil {
		err = errors.Join(err, m.kv.Disconnect())
		m.kv = nil
	}
	return err
}
