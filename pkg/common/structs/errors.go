package structs

import "errors"

var (
	// ErrResourceRead is returned when a backing resource exists but cannot be read or parsed.
	ErrResourceRead = errors.New("unable to read backing resource")

	// ErrResourceWrite is returned when a flush cannot write the backing resource.
	ErrResourceWrite = errors.New("unable to write backing resource")

	// ErrUnknownEntity is returned when an operation references an entity that is not cached.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrEntityExists is returned by create-only helpers when the name is already taken.
	ErrEntityExists = errors.New("entity already exists")

	// ErrReferentialIntegrity is returned when a user references a group that is not known.
	ErrReferentialIntegrity = errors.New("referential integrity violated")

	// ErrUnknownDigest is returned when a digest name has no matching algorithm.
	ErrUnknownDigest = errors.New("unknown digest")

	// ErrInvalidEntity is returned when an entity or value cannot be constructed from the given fields.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidRecord is returned when a persisted record is structurally malformed.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrCacheMiss is returned by cache drivers when a key is not present.
	ErrCacheMiss = errors.New("cache miss")
)
