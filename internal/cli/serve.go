package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/redhat-data-and-ai/usermgmt/internal/periodicjobs"
	"github.com/redhat-data-and-ai/usermgmt/pkg/config"
	"github.com/redhat-data-and-ai/usermgmt/pkg/logger"
	"github.com/redhat-data-and-ai/usermgmt/pkg/store"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Keep the store loaded, flushing periodically and on config changes",
		Long: `Loads the store and keeps it until SIGINT or SIGTERM. Pending mutations are
flushed every flushInterval, before the store is rebuilt after a change of the
config file, and on shutdown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

// serve blocks until ctx is done and closes the store afterwards
func (a *app) serve(ctx context.Context) (err error) {
	log := logger.Logger(ctx)

	m, err := a.newManager(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// ctx is already cancelled here
		err = errors.Join(err, m.Close(context.WithoutCancel(ctx)))
	}()

	if err := config.WatchConfig(a.reconfigure(ctx, m)); err != nil {
		return err
	}

	tasks := periodicjobs.NewPeriodicTaskManager()
	periodicjobs.NewStoreFlushJob(m, a.cfg.FlushInterval).AddToPeriodicTaskManager(tasks)

	log.WithFields(logrus.Fields{
		"groups":        m.Store().Group.Identify(),
		"users":         m.Store().User.Identify(),
		"flushInterval": a.cfg.FlushInterval.String(),
	}).Info("serving store")

	err = tasks.Start(ctx)
	log.Info("shutting down")
	return err
}

func (a *app) reconfigure(ctx context.Context, m *store.Manager) func(*config.AppConfig) {
	return func(cfg *config.AppConfig) {
		if ctx.Err() != nil {
			return
		}
		log := logger.Logger(ctx)
		if a.dataDir != "" {
			cfg.Store.DataDir = a.dataDir
		}
		if a.logLevel != "" {
			cfg.Logging.Level = a.logLevel
		}
		if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
			log.WithError(err).Warn("ignoring invalid logging configuration")
		}
		if err := m.Reconfigure(ctx, cfg.Store, &cfg.Cache); err != nil {
			log.WithError(err).Error("failed to apply configuration change")
		}
	}
}
