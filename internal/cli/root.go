package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/redhat-data-and-ai/usermgmt/pkg/config"
	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
	"github.com/redhat-data-and-ai/usermgmt/pkg/store"
)

// app carries what the persistent pre-run prepared for the subcommands
type app struct {
	environment string
	dataDir     string
	logLevel    string

	cfg *config.AppConfig
}

// NewRootCmd builds the usermgmt command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "usermgmt",
		Short: "Manage users and groups stored as JSON records",
		Long: `usermgmt keeps users and groups in a write-back cache and persists them
as JSON arrays, either in files below the data directory or in a cache server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.environment, "env", "e", "default",
		"Configuration environment, read from $WORKDIR/appconfig/<env>.yaml")
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory of the data files (overrides store.dataDir)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides logging.level)")

	rootCmd.AddCommand(
		newGroupCmd(a),
		newUserCmd(a),
		newFlushCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig(a.environment)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.dataDir != "" {
		cfg.Store.DataDir = a.dataDir
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) newManager(ctx context.Context) (*store.Manager, error) {
	m, err := store.NewManager(ctx, a.cfg.Store, &a.cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return m, nil
}

// withStore opens the store, runs fn and flushes whatever fn left pending,
// also when fn failed
func (a *app) withStore(ctx context.Context, fn func(ctx context.Context, s *store.Store) error) (err error) {
	m, err := a.newManager(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to persist changes: %w", closeErr))
		}
	}()
	return fn(ctx, m.Store())
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
