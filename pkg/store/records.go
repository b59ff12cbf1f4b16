package store

import (
	"fmt"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

// GroupRecord is the persisted shape of a group
type GroupRecord struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// PasswordRecord is the persisted shape of a password
type PasswordRecord struct {
	Digest         string `json:"digest"`
	HashedPassword string `json:"hashedPassword"`
}

// UserRecord is the persisted shape of a user. Group holds the group name.
// Groups is only read, for data files written by the multi-group layout.
type UserRecord struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"displayName"`
	Group       string         `json:"group,omitempty"`
	Groups      []string       `json:"groups,omitempty"`
	Password    PasswordRecord `json:"password"`
}

// GroupName returns the single group the record references.
func (r UserRecord) GroupName() (string, error) {
	switch {
	case r.Group != "" && len(r.Groups) > 0:
		return "", fmt.Errorf("user %s has both group and groups set: %w", r.Name, structs.ErrInvalidRecord)
	case r.Group != "":
		return r.Group, nil
	case len(r.Groups) == 1:
		return r.Groups[0], nil
	case len(r.Groups) > 1:
		return "", fmt.Errorf("user %s references %d groups, only one is supported: %w",
			r.Name, len(r.Groups), structs.ErrInvalidRecord)
	default:
		return "", fmt.Errorf("user %s has no group: %w", r.Name, structs.ErrInvalidRecord)
	}
}
