package store

import (
	"context"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

// RecordAccessor moves a whole slice of records to and from one backing resource.
// This interface enables mocking in tests
type RecordAccessor interface {
	// ReadRecords decodes the stored records into out, a pointer to a slice.
	// A resource that does not exist yet leaves out untouched and is not an error.
	// Any other failure wraps structs.ErrResourceRead.
	ReadRecords(ctx context.Context, out interface{}) error

	// WriteRecords replaces the resource content with records, creating it if needed.
	// Failures wrap structs.ErrResourceWrite.
	WriteRecords(ctx context.Context, records interface{}) error

	// Identify returns a human readable name of the resource for diagnostics
	Identify() string
}

// EntityManagementService defines the cache operations shared by every entity kind
type EntityManagementService[E structs.Entity] interface {
	// GetAllEntities returns a fresh slice with every managed entity
	GetAllEntities() []E

	// GetEntity returns the entity with the given unique name
	GetEntity(name string) (E, bool)

	// ManageEntity stores the entity, replacing any entity with the same name
	ManageEntity(ctx context.Context, entity E) error

	// UpdateEntity replaces the entity with the same name; nil is ignored
	UpdateEntity(ctx context.Context, entity E) error

	// DeleteEntity removes the entity; unknown entities wrap structs.ErrUnknownEntity
	DeleteEntity(ctx context.Context, entity E) error

	// FlushIfDirty writes the cache to the backing resource if anything changed since the last write
	FlushIfDirty(ctx context.Context) error
}

// GroupManagementService manages groups
type GroupManagementService interface {
	EntityManagementService[*structs.Group]
}

// UserManagementService manages users
type UserManagementService interface {
	EntityManagementService[*structs.User]
}
