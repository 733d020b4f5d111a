package main

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/V4T54L/venue-portal/internal/adapter/catalog"
	"github.com/V4T54L/venue-portal/internal/adapter/notifier"
	"github.com/V4T54L/venue-portal/internal/adapter/sink"
	"github.com/V4T54L/venue-portal/internal/adapter/validation"
	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/pkg/config"
	"github.com/V4T54L/venue-portal/internal/pkg/logger"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

// app carries what every subcommand needs once config is loaded.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	validator *validation.Validator
	catalog   domain.VenueCatalog
	sink      *sink.LoggingUserSink
	redis     *redis.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Administer venue portal users from the terminal",
		Long: `portalctl opens the venue portal's add-user and edit-user dialogs in the terminal.

Configuration is read from the same environment variables as the portal server
(VENUES, LOG_LEVEL, REDIS_URL, NOTIFICATION_CHANNEL). When REDIS_URL is set, saved
users are announced to running portal instances.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	root.AddCommand(newUserCmd(a))
	root.AddCommand(newRolesCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg
	a.logger = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)

	if a.validator, err = validation.New(); err != nil {
		return fmt.Errorf("failed to build validator: %w", err)
	}
	a.catalog = catalog.NewStatic(cfg.Venues)

	var announcer sink.Announcer
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to parse redis url: %w", err)
		}
		a.redis = redis.NewClient(opts)
		publisher := notifier.NewRedisPublisher(a.redis, cfg.NotificationChannel, a.logger)
		announcer = usecase.NewNotificationCenter(publisher, nil, nil, a.logger)
	}
	a.sink = sink.NewLoggingUserSink(a.logger, announcer)
	return nil
}

func (a *app) close() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}

func newRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the roles a user can be given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, role := range domain.Roles {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", role, role.Description())
			}
			return nil
		},
	}
}
