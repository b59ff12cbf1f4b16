package store

import (
	"context"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

// Kind supplies the per entity kind conversions the generic service needs
type Kind[R any, E structs.Entity] interface {
	// Name is used in logs and error messages
	Name() string

	// ToEntities converts the records read at load time; any failure aborts the load
	ToEntities(ctx context.Context, records []R) ([]E, error)

	// ToRecords converts a cache snapshot for writing
	ToRecords(entities []E) []R
}

type groupKind struct {
	converter Converter
}

func (groupKind) Name() string {
	return "group"
}

func (k groupKind) ToEntities(_ context.Context, records []GroupRecord) ([]*structs.Group, error) {
	return k.converter.ToGroups(records)
}

func (k groupKind) ToRecords(groups []*structs.Group) []GroupRecord {
	return k.converter.GroupsToRecords(groups)
}

// userKind resolves group references against a live group service
type userKind struct {
	converter Converter
	groups    GroupManagementService
}

func (userKind) Name() string {
	return "user"
}

func (k userKind) ToEntities(_ context.Context, records []UserRecord) ([]*structs.User, error) {
	return k.converter.ToUsers(records, IndexGroups(k.groups.GetAllEntities()))
}

func (k userKind) ToRecords(users []*structs.User) []UserRecord {
	return k.converter.UsersToRecords(users)
}
