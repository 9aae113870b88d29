package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/repository"
	"shareit/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	exitOK = iota
	exitInternal
	exitUsage
	exitValidation
	exitNotFound
	exitForbidden
	exitConflict
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, cmdArgs, err := parseGlobal(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInternal
	}

	// stdout carries command output
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInternal
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	logger, requestID := logging.ForRequest(baseLogger, "cli")
	logger.Debug().Strs("args", cmdArgs).Msg("command started")

	a, cleanup, err := newApp(ctx, cfg, logger, stdout)
	if err != nil {
		logger.Error().Err(err).Msg("initialization failed")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitInternal
	}
	defer cleanup()

	if err := a.execute(ctx, cmdArgs); err != nil {
		code := exitCode(err)
		logger.Debug().Err(err).Int("exit_code", code).Msg("command failed")
		fmt.Fprintf(stderr, "Error [%s] (request %s): %v\n", kindLabel(err), requestID, err)
		return code
	}
	return exitOK
}

type globalOptions struct {
	configPath string
}

func parseGlobal(args []string, stderr io.Writer) (globalOptions, []string, error) {
	fs := newFlagSet("shareit", stderr)
	opts := globalOptions{}
	fs.StringVar(&opts.configPath, "config", defaultConfigPath(), "path to config.yaml")
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return opts, nil, errUsage("command is required")
	}
	return opts, fs.Args(), nil
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// newApp opens the store and wires the services. cleanup releases everything newApp opened.
func newApp(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, stdout io.Writer) (*app, func(), error) {
	db, err := database.NewDB(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
	}

	redisClient, store := initStore(ctx, cfg, logger)
	repo := repository.NewCachedRepository(db, store, logger)

	bus := events.NewEventBus()
	subscribeEvents(bus, logger)

	a := &app{
		cfg:      cfg,
		db:       db,
		repo:     repo,
		bookings: service.NewBookingService(repo, bus, store, cfg.Booking, logger),
		items:    service.NewItemService(repo, bus, logger),
		logger:   logger,
		out:      stdout,
	}

	cleanup := func() {
		if cfg.Monitoring.PrometheusEnabled {
			if err := metrics.WriteTextfile(cfg.Monitoring.TextfilePath); err != nil {
				logger.Warn().Err(err).Str("path", cfg.Monitoring.TextfilePath).Msg("failed to write metrics")
			}
		}
		if err := repository.Close(redisClient); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis client")
		}
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}
	return a, cleanup, nil
}

// initStore prefers Redis and falls back to process memory when it is absent or failing.
func initStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, repository.Store) {
	fallback := repository.NewMemoryStore(cfg.Redis.UserCacheTTL)
	if cfg.Redis.Address == "" {
		return nil, fallback
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory store")
	}
	primary := repository.NewRedisStore(client, cfg.Redis.UserCacheTTL)
	return client, repository.NewFailoverStore(primary, fallback, logger)
}

func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.OnError(func(ev *events.Event, err error) {
		logger.Error().Err(err).Str("event", ev.Type).Str("event_id", ev.ID).Msg("event handler failed")
	})

	record := func(ev *events.Event) error {
		metrics.IncEvent(ev.Type)
		logger.Info().Str("event", ev.Type).Str("event_id", ev.ID).RawJSON("payload", ev.Payload).Msg("domain event")
		return nil
	}
	for _, t := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
		events.EventCommentCreated,
	} {
		bus.Subscribe(t, record)
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func errUsage(format string, args ...interface{}) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func exitCode(err error) int {
	var u usageError
	if errors.As(err, &u) {
		return exitUsage
	}
	switch domain.Kind(err) {
	case domain.KindNone:
		return exitOK
	case domain.KindValidation:
		return exitValidation
	case domain.KindNotFound:
		return exitNotFound
	case domain.KindForbidden:
		return exitForbidden
	case domain.KindConflict:
		return exitConflict
	default:
		return exitInternal
	}
}

func kindLabel(err error) string {
	var u usageError
	if errors.As(err, &u) {
		return "usage"
	}
	return domain.Kind(err)
}
