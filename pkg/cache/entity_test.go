package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

func newGroup(t *testing.T, name, displayName string) *structs.Group {
	t.Helper()
	g, err := structs.NewGroup(name, displayName)
	require.NoError(t, err)
	return g
}

func TestEntityCache_AddAndGet(t *testing.T) {
	c := NewEntityCache[*structs.Group]()

	admins := newGroup(t, "admins", "Administrators")
	c.Add(admins)

	got, ok := c.Get("admins")
	require.True(t, ok)
	assert.Same(t, admins, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestEntityCache_AddNilIsNoop(t *testing.T) {
	c := NewEntityCache[*structs.Group]()
	c.Add(nil)
	assert.Equal(t, 0, c.Len())
}

func TestEntityCache_AddOverwritesSameName(t *testing.T) {
	c := NewEntityCache[*structs.Group]()
	c.Add(newGroup(t, "admins", "Old"))
	c.Add(newGroup(t, "admins", "New"))

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get("admins")
	require.True(t, ok)
	assert.Equal(t, "New", got.GetDisplayName())
}

func TestEntityCache_GetAllReturnsFreshSlice(t *testing.T) {
	c := NewEntityCache[*structs.Group]()
	c.Add(newGroup(t, "ops", ""))
	c.Add(newGroup(t, "devs", ""))

	all := c.GetAll()
	require.Len(t, all, 2)
	assert.Equal(t, "devs", all[0].GetName())
	assert.Equal(t, "ops", all[1].GetName())

	all[0] = nil
	again := c.GetAll()
	assert.NotNil(t, again[0])

	c.Add(newGroup(t, "qa", ""))
	assert.Len(t, all, 2)
	assert.Len(t, c.GetAll(), 3)
}

func TestEntityCache_Remove(t *testing.T) {
	c := NewEntityCache[*structs.Group]()
	admins := newGroup(t, "admins", "")
	c.Add(admins)

	require.NoError(t, c.Remove(admins))
	_, ok := c.Get("admins")
	assert.False(t, ok)

	err := c.Remove(admins)
	assert.ErrorIs(t, err, structs.ErrUnknownEntity)
	assert.Contains(t, err.Error(), "admins")

	assert.NoError(t, c.Remove(nil))
}

func TestEntityCache_ConcurrentAccess(t *testing.T) {
	c := NewEntityCache[*structs.Group]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			g, _ := structs.NewGroup(fmt.Sprintf("group-%d", i), "")
			c.Add(g)
		}(i)
		go func() {
			defer wg.Done()
			for _, g := range c.GetAll() {
				assert.NotNil(t, g)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}
