package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redhat-data-and-ai/usermgmt/pkg/common/structs"
	"github.com/redhat-data-and-ai/usermgmt/pkg/store"
)

func newGroupCmd(a *app) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}
	groupCmd.AddCommand(
		newGroupListCmd(a),
		newGroupAddCmd(a),
		newGroupUpdateCmd(a),
		newGroupDeleteCmd(a),
	)
	return groupCmd
}

func newGroupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				for _, group := range s.Group.GetAllEntities() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", group.GetName(), group.GetDisplayName())
				}
				return nil
			})
		},
	}
}

func newGroupAddCmd(a *app) *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a new group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := structs.NewGroup(args[0], displayName)
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				if err := s.CreateGroup(ctx, group); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "group %s created\n", group.GetName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name, defaults to the group name")
	return cmd
}

func newGroupUpdateCmd(a *app) *cobra.Command {
	var displayName string

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Change the display name of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			group, err := structs.NewGroup(args[0], displayName)
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				if err := s.UpdateGroup(ctx, group); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "group %s updated\n", group.GetName())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&displayName, "display-name", "", "New display name")
	_ = cmd.MarkFlagRequired("display-name")
	return cmd
}

func newGroupDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a group no user belongs to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				group, ok := s.Group.GetEntity(args[0])
				if !ok {
					return fmt.Errorf("group %s: %w", args[0], structs.ErrUnknownEntity)
				}
				if err := s.DeleteGroup(ctx, group); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "group %s deleted\n", group.GetName())
				return nil
			})
		},
	}
}
