package cache

import (
	"fmt"
	"sort"
	"sync"

	gocache "github.com/patrickmn/go-cache"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

// EntityCache is the authoritative in-memory mapping from entity name to entity.
// Writers serialize on mu; readers go straight to go-cache, which guards every
// entry with its own RWMutex, so a reader never sees a half-written entry.
type EntityCache[E structs.Entity] struct {
	mu    sync.Mutex
	items *gocache.Cache
}

// NewEntityCache returns an empty cache whose entries never expire.
func NewEntityCache[E structs.Entity]() *EntityCache[E] {
	return &EntityCache[E]{
		items: gocache.New(gocache.NoExpiration, 0),
	}
}

// Add inserts entity under its name, replacing any entity with the same name.
// A nil entity is ignored.
func (c *EntityCache[E]) Add(entity E) {
	var zero E
	if entity == zero {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items.Set(entity.GetName(), entity, gocache.NoExpiration)
}

// Get returns the entity cached under name.
func (c *EntityCache[E]) Get(name string) (E, bool) {
	var zero E
	v, ok := c.items.Get(name)
	if !ok {
		return zero, false
	}
	return v.(E), true
}

// GetAll returns a new slice holding every cached entity, ordered by name.
func (c *EntityCache[E]) GetAll() []E {
	items := c.items.Items()
	result := make([]E, 0, len(items))
	for _, item := range items {
		result = append(result, item.Object.(E))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].GetName() < result[j].GetName()
	})
	return result
}

// Remove deletes the entity cached under entity's name. A nil entity is ignored.
func (c *EntityCache[E]) Remove(entity E) error {
	var zero E
	if entity == zero {
		return nil
	}
	name := entity.GetName()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items.Get(name); !ok {
		return fmt.Errorf("an entity with the name '%s' is unknown: %w", name, structs.ErrUnknownEntity)
	}
	c.items.Delete(name)
	return nil
}

func (c *EntityCache[E]) Len() int {
	return c.items.ItemCount()
}
