package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/redhat-data-and-ai/usermgmt/pkg/cache"
	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
)

// DefaultDirtyLimit is the number of mutations after which the cache is written back
const DefaultDirtyLimit = 10

// ErrInvalidDirtyLimit is returned for a dirty limit below one
var ErrInvalidDirtyLimit = errors.New("dirty limit must be at least 1")

// EntityService is a write-back cache for one entity kind.
// Every mutation counts as dirty; once the count reaches the dirty limit the
// whole cache is written through the accessor and the count starts over.
//
// mu spans the mutation, the count and a triggered flush, so two callers can
// neither both miss the threshold nor both flush for the same mutations.
// Reads do not take mu.
type EntityService[R any, E structs.Entity] struct {
	kind       Kind[R, E]
	accessor   RecordAccessor
	entities   *cache.EntityCache[E]
	dirtyLimit int

	mu         sync.Mutex
	dirtyCount int
}

type GroupService = EntityService[GroupRecord, *structs.Group]
type UserService = EntityService[UserRecord, *structs.User]

// Compile-time interface compliance checks
var (
	_ GroupManagementService = (*GroupService)(nil)
	_ UserManagementService  = (*UserService)(nil)
)

type serviceOptions struct {
	dirtyLimit int
}

// Option customizes an EntityService
type Option func(*serviceOptions)

// WithDirtyLimit sets the number of mutations that triggers a flush
func WithDirtyLimit(limit int) Option {
	return func(o *serviceOptions) {
		o.dirtyLimit = limit
	}
}

// NewEntityService reads every record through accessor and loads the converted
// entities. Any read or conversion failure is returned and no service is built.
func NewEntityService[R any, E structs.Entity](
	ctx context.Context,
	kind Kind[R, E],
	accessor RecordAccessor,
	opts ...Option,
) (*EntityService[R, E], error) {
	if accessor == nil {
		return nil, errors.New("record accessor must not be nil")
	}
	o := serviceOptions{dirtyLimit: DefaultDirtyLimit}
	for _, opt := range opts {
		opt(&o)
	}
	if o.dirtyLimit < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidDirtyLimit, o.dirtyLimit)
	}

	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"kind":     kind.Name(),
		"resource": accessor.Identify(),
	})

	var records []R
	if err := accessor.ReadRecords(ctx, &records); err != nil {
		log.WithError(err).Error("failed to read records")
		return nil, err
	}
	log.WithField("count", len(records)).Debug("read records")

	entities, err := kind.ToEntities(ctx, records)
	if err != nil {
		log.WithError(err).Error("failed to convert records")
		return nil, fmt.Errorf("unable to load %s entities from %s: %w", kind.Name(), accessor.Identify(), err)
	}

	s := &EntityService[R, E]{
		kind:       kind,
		accessor:   accessor,
		entities:   cache.NewEntityCache[E](),
		dirtyLimit: o.dirtyLimit,
	}
	for _, entity := range entities {
		s.entities.Add(entity)
	}

	log.WithFields(logrus.Fields{
		"entities":   s.entities.Len(),
		"dirtyLimit": s.dirtyLimit,
	}).Info("entity service ready")
	return s, nil
}

// NewGroupService loads the groups stored behind accessor
func NewGroupService(ctx context.Context, accessor RecordAccessor, opts ...Option) (*GroupService, error) {
	return NewEntityService[GroupRecord, *structs.Group](ctx, groupKind{converter: NewConverter()}, accessor, opts...)
}

// NewUserService loads the users stored behind accessor. Every user must
// reference a group currently managed by groups.
func NewUserService(
	ctx context.Context,
	accessor RecordAccessor,
	groups GroupManagementService,
	opts ...Option,
) (*UserService, error) {
	if groups == nil {
		return nil, errors.New("group service must not be nil")
	}
	kind := userKind{converter: NewConverter(), groups: groups}
	return NewEntityService[UserRecord, *structs.User](ctx, kind, accessor, opts...)
}

func (s *EntityService[R, E]) GetAllEntities() []E {
	return s.entities.GetAll()
}

func (s *EntityService[R, E]) GetEntity(name string) (E, bool) {
	return s.entities.Get(name)
}

// ManageEntity stores entity under its name. Duplicates replace the cached
// entity; callers wanting create-only semantics check GetEntity first.
func (s *EntityService[R, E]) ManageEntity(ctx context.Context, entity E) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities.Add(entity)
	s.dirtyCount++
	return s.flushIfDirtyEnough(ctx)
}

func (s *EntityService[R, E]) UpdateEntity(ctx context.Context, entity E) error {
	var zero E
	if entity == zero {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entities.Add(entity)
	s.dirtyCount++
	return s.flushIfDirtyEnough(ctx)
}

func (s *EntityService[R, E]) DeleteEntity(ctx context.Context, entity E) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.entities.Remove(entity); err != nil {
		return err
	}
	s.dirtyCount++
	return s.flushIfDirtyEnough(ctx)
}

// FlushIfDirty writes the cache regardless of the limit when at least one
// mutation is pending. Owners call it on shutdown.
func (s *EntityService[R, E]) FlushIfDirty(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirtyCount == 0 {
		return nil
	}
	return s.flush(ctx)
}

// Flush writes the cache even when nothing is pending, rewriting the
// resource in canonical form.
func (s *EntityService[R, E]) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx)
}

// DirtyCount returns the number of mutations since the last successful flush
func (s *EntityService[R, E]) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyCount
}

// Identify names the backing resource
func (s *EntityService[R, E]) Identify() string {
	return s.accessor.Identify()
}

// flushIfDirtyEnough must be called with mu held
func (s *EntityService[R, E]) flushIfDirtyEnough(ctx context.Context) error {
	if s.dirtyCount < s.dirtyLimit {
		return nil
	}
	return s.flush(ctx)
}

// flush must be called with mu held. On failure the dirty count is kept so
// the next mutation tries again.
func (s *EntityService[R, E]) flush(ctx context.Context) error {
	log := logger.Logger(ctx).WithFields(logrus.Fields{
		"kind":     s.kind.Name(),
		"resource": s.accessor.Identify(),
	})

	records := s.kind.ToRecords(s.entities.GetAll())
	if err := s.accessor.WriteRecords(ctx, records); err != nil {
		log.WithError(err).WithField("dirtyCount", s.dirtyCount).Error("failed to flush entities")
		return err
	}

	log.WithFields(logrus.Fields{
		"count":      len(records),
		"dirtyCount": s.dirtyCount,
	}).Debug("flushed entities")
	s.dirtyCount = 0
	return nil
}
