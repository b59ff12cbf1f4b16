package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/redhat-data-and-ai/usermgmt/pkg/cache"
	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
)

const (
	// DriverFile keeps each entity kind in a JSON file below DataDir
	DriverFile = "file"
	// DriverCache keeps each entity kind under a key of the configured cache
	DriverCache = "cache"
)

// Config holds the values the store consumes from the application config
type Config struct {
	Driver         string `mapstructure:"driver" yaml:"driver"`
	DataDir        string `mapstructure:"dataDir" yaml:"dataDir"`
	GroupsResource string `mapstructure:"groupsResource" yaml:"groupsResource"`
	UsersResource  string `mapstructure:"usersResource" yaml:"usersResource"`
	DirtyLimit     int    `mapstructure:"dirtyLimit" yaml:"dirtyLimit"`
}

// Store owns the group service and the user service that depends on it.
// The helper methods on Store add create-only and referential checks on top
// of the services; they serialize on mu so a check and its action are atomic
// with respect to other helpers.
type Store struct {
	Group *GroupService
	User  *UserService

	mu sync.Mutex
}

// New creates a Store, loading groups first and then the users referencing them.
// kv is only used by the cache driver and may be nil for the file driver.
func New(ctx context.Context, config Config, kv cache.Cache) (*Store, error) {
	groupsAccessor, usersAccessor, err := newAccessors(config, kv)
	if err != nil {
		return nil, err
	}

	dirtyLimit := config.DirtyLimit
	if dirtyLimit == 0 {
		dirtyLimit = DefaultDirtyLimit
	}

	groups, err := NewGroupService(ctx, groupsAccessor, WithDirtyLimit(dirtyLimit))
	if err != nil {
		return nil, err
	}
	users, err := NewUserService(ctx, usersAccessor, groups, WithDirtyLimit(dirtyLimit))
	if err != nil {
		return nil, err
	}

	return &Store{
		Group: groups,
		User:  users,
	}, nil
}

func newAccessors(config Config, kv cache.Cache) (RecordAccessor, RecordAccessor, error) {
	if config.GroupsResource == "" || config.UsersResource == "" {
		return nil, nil, errors.New("groups and users resource names must be set")
	}

	switch config.Driver {
	case DriverFile, "":
		groups, err := NewFileAccessor(filepath.Join(config.DataDir, config.GroupsResource))
		if err != nil {
			return nil, nil, err
		}
		users, err := NewFileAccessor(filepath.Join(config.DataDir, config.UsersResource))
		if err != nil {
			return nil, nil, err
		}
		return groups, users, nil
	case DriverCache:
		groups, err := NewCacheAccessor(kv, config.GroupsResource)
		if err != nil {
			return nil, nil, err
		}
		users, err := NewCacheAccessor(kv, config.UsersResource)
		if err != nil {
			return nil, nil, err
		}
		return groups, users, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver: %s", config.Driver)
	}
}

// FlushIfDirty flushes both entity kinds; they have independent resources.
// A failing kind does not stop the other one from being flushed.
func (s *Store) FlushIfDirty(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return s.Group.FlushIfDirty(ctx)
	})
	g.Go(func() error {
		return s.User.FlushIfDirty(ctx)
	})
	return g.Wait()
}

// Flush writes both entity kinds unconditionally
func (s *Store) Flush(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error {
		return s.Group.Flush(ctx)
	})
	g.Go(func() error {
		return s.User.Flush(ctx)
	})
	return g.Wait()
}

// CreateGroup manages group unless a group with the same name exists
func (s *Store) CreateGroup(ctx context.Context, group *structs.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Group.GetEntity(group.GetName()); ok {
		return fmt.Errorf("group %s: %w", group.GetName(), structs.ErrEntityExists)
	}
	return s.Group.ManageEntity(ctx, group)
}

// UpdateGroup replaces an existing group and points its users at the
// replacement, so cached users never carry a stale group.
func (s *Store) UpdateGroup(ctx context.Context, group *structs.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.Group.GetEntity(group.GetName()); !ok {
		return fmt.Errorf("group %s: %w", group.GetName(), structs.ErrUnknownEntity)
	}
	if err := s.Group.UpdateEntity(ctx, group); err != nil {
		return err
	}

	for _, user := range s.User.GetAllEntities() {
		if user.GetGroup().GetName() != group.GetName() {
			continue
		}
		rebound, err := structs.NewUser(user.GetName(), user.GetDisplayName(), group, user.GetPassword())
		if err != nil {
			return err
		}
		if err := s.User.UpdateEntity(ctx, rebound); err != nil {
			return err
		}
	}
	return nil
}

// DeleteGroup deletes group unless a user still belongs to it
func (s *Store) DeleteGroup(ctx context.Context, group *structs.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.User.GetAllEntities() {
		if user.GetGroup().GetName() == group.GetName() {
			return fmt.Errorf("group %s is still referenced by user %s: %w",
				group.GetName(), user.GetName(), structs.ErrReferentialIntegrity)
		}
	}
	return s.Group.DeleteEntity(ctx, group)
}

// CreateUser manages user unless the name is taken or its group is unknown
func (s *Store) CreateUser(ctx context.Context, user *structs.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.User.GetEntity(user.GetName()); ok {
		return fmt.Errorf("user %s: %w", user.GetName(), structs.ErrEntityExists)
	}
	if err := s.checkGroup(user); err != nil {
		return err
	}
	return s.User.ManageEntity(ctx, user)
}

// UpdateUser replaces an existing user whose group is known
func (s *Store) UpdateUser(ctx context.Context, user *structs.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.User.GetEntity(user.GetName()); !ok {
		return fmt.Errorf("user %s: %w", user.GetName(), structs.ErrUnknownEntity)
	}
	if err := s.checkGroup(user); err != nil {
		return err
	}
	return s.User.UpdateEntity(ctx, user)
}

func (s *Store) checkGroup(user *structs.User) error {
	name := user.GetGroup().GetName()
	if _, ok := s.Group.GetEntity(name); !ok {
		return fmt.Errorf("user %s references group '%s' which does not exist: %w",
			user.GetName(), name, structs.ErrReferentialIntegrity)
	}
	return nil
}
