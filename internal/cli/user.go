package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
	"github.com/redhat-data-and-ai/usermgmt/pkg/store"
)

var errPasswordMismatch = errors.New("password does not match")

// passwordFlags is shared by the commands taking a plain text password
type passwordFlags struct {
	password string
	stdin    bool
	digest   string
}

func (p *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.password, "password", "", "Plain text password")
	cmd.Flags().BoolVar(&p.stdin, "password-stdin", false, "Read the password from stdin")
	cmd.Flags().StringVar(&p.digest, "digest", structs.SHA256.GetDigestName(), "Digest used to hash the password")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
}

func (p *passwordFlags) given() bool {
	return p.password != "" || p.stdin
}

func (p *passwordFlags) read(cmd *cobra.Command) (string, error) {
	if !p.stdin {
		if p.password == "" {
			return "", fmt.Errorf("password is required (use --password or --password-stdin)")
		}
		return p.password, nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", fmt.Errorf("no password on stdin")
	}
	password := strings.TrimRight(scanner.Text(), "\r")
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	return password, nil
}

func (p *passwordFlags) hash(cmd *cobra.Command) (structs.Password, error) {
	digest, err := structs.DigestByName(p.digest)
	if err != nil {
		return structs.Password{}, err
	}
	plain, err := p.read(cmd)
	if err != nil {
		return structs.Password{}, err
	}
	return structs.HashPassword(digest, plain)
}

func newUserCmd(a *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	userCmd.AddCommand(
		newUserListCmd(a),
		newUserAddCmd(a),
		newUserUpdateCmd(a),
		newUserDeleteCmd(a),
		newUserPasswdCheckCmd(a),
	)
	return userCmd
}

func newUserListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				for _, user := range s.User.GetAllEntities() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n",
						user.GetName(),
						user.GetDisplayName(),
						user.GetGroup().GetName(),
						user.GetPassword().GetDigest())
				}
				return nil
			})
		},
	}
}

func newUserAddCmd(a *app) *cobra.Command {
	var (
		displayName string
		groupName   string
		password    passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new user in an existing group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := password.hash(cmd)
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				group, err := lookupGroup(s, groupName)
				if err != nil {
					return err
				}
				user, err := structs.NewUser(args[0], displayName, group, hashed)
				if err != nil {
					return err
				}
				if err := s.CreateUser(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s created\n", user.GetName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name, defaults to the user name")
	cmd.Flags().StringVar(&groupName, "group", "", "Group the user belongs to")
	_ = cmd.MarkFlagRequired("group")
	password.register(cmd)
	return cmd
}

func newUserUpdateCmd(a *app) *cobra.Command {
	var (
		displayName string
		groupName   string
		password    passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Change display name, group or password of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var hashed structs.Password
			if password.given() {
				var err error
				if hashed, err = password.hash(cmd); err != nil {
					return err
				}
			}

			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				current, ok := s.User.GetEntity(args[0])
				if !ok {
					return fmt.Errorf("user %s: %w", args[0], structs.ErrUnknownEntity)
				}

				group := current.GetGroup()
				if groupName != "" {
					var err error
					if group, err = lookupGroup(s, groupName); err != nil {
						return err
					}
				}
				if hashed.IsZero() {
					hashed = current.GetPassword()
				}
				name := displayName
				if name == "" {
					name = current.GetDisplayName()
				}

				user, err := structs.NewUser(current.GetName(), name, group, hashed)
				if err != nil {
					return err
				}
				if err := s.UpdateUser(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s updated\n", user.GetName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "New display name")
	cmd.Flags().StringVar(&groupName, "group", "", "New group")
	password.register(cmd)
	return cmd
}

func newUserDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				user, ok := s.User.GetEntity(args[0])
				if !ok {
					return fmt.Errorf("user %s: %w", args[0], structs.ErrUnknownEntity)
				}
				if err := s.User.DeleteEntity(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "user %s deleted\n", user.GetName())
				return nil
			})
		},
	}
}

func newUserPasswdCheckCmd(a *app) *cobra.Command {
	var password passwordFlags

	cmd := &cobra.Command{
		Use:   "passwd-check NAME",
		Short: "Check a plain text password against the stored one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, err := password.read(cmd)
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				user, ok := s.User.GetEntity(args[0])
				if !ok {
					return fmt.Errorf("user %s: %w", args[0], structs.ErrUnknownEntity)
				}
				if !user.GetPassword().Matches(plain) {
					return fmt.Errorf("user %s: %w", user.GetName(), errPasswordMismatch)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "password matches")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password.password, "password", "", "Plain text password")
	cmd.Flags().BoolVar(&password.stdin, "password-stdin", false, "Read the password from stdin")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	return cmd
}

func lookupGroup(s *store.Store, name string) (*structs.Group, error) {
	group, ok := s.Group.GetEntity(name)
	if !ok {
		return nil, fmt.Errorf("group '%s' does not exist: %w", name, structs.ErrReferentialIntegrity)
	}
	return group, nil
}
