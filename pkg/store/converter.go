package store

import (
	"fmt"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

// Converter maps between persisted records and entities.
type Converter struct{}

func NewConverter() Converter {
	return Converter{}
}

func (Converter) ToGroup(record GroupRecord) (*structs.Group, error) {
	return structs.NewGroup(record.Name, record.DisplayName)
}

// ToUser builds a user, resolving its group by name against knownGroups.
func (Converter) ToUser(record UserRecord, knownGroups map[string]*structs.Group) (*structs.User, error) {
	groupName, err := record.GroupName()
	if err != nil {
		return nil, err
	}
	group, ok := knownGroups[groupName]
	if !ok {
		return nil, fmt.Errorf("user %s references group '%s' which does not exist: %w",
			record.Name, groupName, structs.ErrReferentialIntegrity)
	}

	digest, err := structs.DigestByName(record.Password.Digest)
	if err != nil {
		return nil, fmt.Errorf("password of user %s: %w", record.Name, err)
	}
	password, err := structs.NewPassword(digest, record.Password.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("password of user %s: %w", record.Name, err)
	}

	return structs.NewUser(record.Name, record.DisplayName, group, password)
}

func (Converter) GroupToRecord(group *structs.Group) GroupRecord {
	return GroupRecord{
		Name:        group.GetName(),
		DisplayName: group.GetDisplayName(),
	}
}

func (Converter) UserToRecord(user *structs.User) UserRecord {
	password := user.GetPassword()
	return UserRecord{
		Name:        user.GetName(),
		DisplayName: user.GetDisplayName(),
		Group:       user.GetGroup().GetName(),
		Password: PasswordRecord{
			Digest:         password.GetDigest().GetDigestName(),
			HashedPassword: password.GetHashedPassword(),
		},
	}
}

// ToGroups converts every record and stops at the first failure.
func (c Converter) ToGroups(records []GroupRecord) ([]*structs.Group, error) {
	result := make([]*structs.Group, 0, len(records))
	for _, record := range records {
		group, err := c.ToGroup(record)
		if err != nil {
			return nil, err
		}
		result = append(result, group)
	}
	return result, nil
}

// ToUsers converts every record and stops at the first failure.
func (c Converter) ToUsers(records []UserRecord, knownGroups map[string]*structs.Group) ([]*structs.User, error) {
	result := make([]*structs.User, 0, len(records))
	for _, record := range records {
		user, err := c.ToUser(record, knownGroups)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, nil
}

func (c Converter) GroupsToRecords(groups []*structs.Group) []GroupRecord {
	result := make([]GroupRecord, 0, len(groups))
	for _, group := range groups {
		result = append(result, c.GroupToRecord(group))
	}
	return result
}

func (c Converter) UsersToRecords(users []*structs.User) []UserRecord {
	result := make([]UserRecord, 0, len(users))
	for _, user := range users {
		result = append(result, c.UserToRecord(user))
	}
	return result
}

// IndexGroups maps group names to groups.
func IndexGroups(groups []*structs.Group) map[string]*structs.Group {
	result := make(map[string]*structs.Group, len(groups))
	for _, group := range groups {
		result[group.GetName()] = group
	}
	return result
}
