package structs

import "fmt"

// User is an immutable user belonging to exactly one group.
type User struct {
	name        string
	displayName string
	group       *Group
	password    Password
}

// NewUser builds a user. Name, group and password are mandatory; an empty
// display name falls back to the name.
func NewUser(name, displayName string, group *Group, password Password) (*User, error) {
	if name == "" {
		return nil, fmt.Errorf("user name must not be empty: %w", ErrInvalidEntity)
	}
	if group == nil {
		return nil, fmt.Errorf("user %s must belong to a group: %w", name, ErrInvalidEntity)
	}
	if password.IsZero() {
		return nil, fmt.Errorf("user %s must have a password: %w", name, ErrInvalidEntity)
	}
	if displayName == "" {
		displayName = name
	}
	return &User{
		name:        name,
		displayName: displayName,
		group:       group,
		password:    password,
	}, nil
}

func (u *User) GetName() string {
	return u.name
}

func (u *User) GetDisplayName() string {
	return u.displayName
}

func (u *User) GetGroup() *Group {
	return u.group
}

func (u *User) GetPassword() Password {
	return u.password
}

func (u *User) Equal(other *User) bool {
	if u == nil || other == nil {
		return u == other
	}
	return u.name == other.name &&
		u.displayName == other.displayName &&
		u.group.Equal(other.group) &&
		u.password.Equal(other.password)
}

func (u *User) String() string {
	return fmt.Sprintf("User{name: %s, displayName: %s, group: %s, password: *****}",
		u.name, u.displayName, u.group.GetName())
}
