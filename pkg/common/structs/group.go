package structs

import "fmt"

// Group is an immutable named group. The name is the unique key.
type Group struct {
	name        string
	displayName string
}

// NewGroup builds a group. An empty display name falls back to the name.
func NewGroup(name, displayName string) (*Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name must not be empty: %w", ErrInvalidEntity)
	}
	if displayName == "" {
		displayName = name
	}
	return &Group{name: name, displayName: displayName}, nil
}

func (g *Group) GetName() string {
	return g.name
}

func (g *Group) GetDisplayName() string {
	return g.displayName
}

func (g *Group) Equal(other *Group) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.name == other.name && g.displayName == other.displayName
}

func (g *Group) String() string {
	return fmt.Sprintf("Group{name: %s, displayName: %s}", g.name, g.displayName)
}
