package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/tree-api/internal/cache"
	"github.com/yukikurage/tree-api/internal/config"
	"github.com/yukikurage/tree-api/internal/database"
	apierrors "github.com/yukikurage/tree-api/internal/errors"
	"github.com/yukikurage/tree-api/internal/handlers"
	"github.com/yukikurage/tree-api/internal/health"
	"github.com/yukikurage/tree-api/internal/logger"
	"github.com/yukikurage/tree-api/internal/middleware"
	"github.com/yukikurage/tree-api/internal/models"
	"github.com/yukikurage/tree-api/internal/repository"
	"github.com/yukikurage/tree-api/internal/server"
	"github.com/yukikurage/tree-api/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "tree-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Logger, cfg.Sentry.Enabled)
	if err != nil {
		return err
	}
	defer log.Close()
	slog.SetDefault(log.Logger)

	if cfg.Sentry.Enabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.TracesSampleRate,
			AttachStacktrace: true,
		})
		if err != nil {
			return fmt.Errorf("failed to init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	log.Info("starting tree-api",
		slog.String("env", cfg.App.Env),
		slog.String("config_file", cfg.FileUsed()),
		slog.Int("port", cfg.Server.Port),
	)

	// The log level follows edits of the config file
	config.Watch(v, func(next *config.Config) {
		if err := log.SetLevel(next.Logger.Level); err != nil {
			log.Warn("ignoring log level change", slog.Any("error", err))
			return
		}
		log.Info("log level changed", slog.String("level", next.Logger.Level))
	}, func(err error) {
		log.Warn("config reload failed", slog.Any("error", err))
	})

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Connect to database
	if err := database.Connect(cfg.DB, log.Logger); err != nil {
		return err
	}
	db := database.GetDB()

	// Run migrations
	if err := database.Migrate(db, log.Logger); err != nil {
		return err
	}

	checker := health.NewChecker(log.Logger)
	checker.AddCheck("database", health.NewDBChecker(db))

	// Optional second-level cache
	var store *cache.Store
	if cfg.Redis.Enabled {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()

		store = cache.NewStore(client, cfg.App.Name, cfg.Redis.CacheTTL)
		checker.AddCheck("redis", health.NewRedisChecker(client))
		log.Info("entity cache enabled", slog.String("addr", cfg.Redis.Addr), slog.Duration("ttl", cfg.Redis.CacheTTL))
	}

	// Initialize repositories and services
	userRepo := repository.NewUserRepository(db)
	bankRepo := cache.Wrap[models.Bank](repository.NewBankRepository(db), store, log.Logger)
	timerRepo := cache.Wrap[models.Timer](repository.NewTimerRepository(db), store, log.Logger)
	treeRepo := cache.Wrap[models.Tree](repository.NewTreeRepository(db), store, log.Logger)

	router, err := handlers.NewRouter(handlers.RouterDeps{
		Log:      log.Logger,
		Reporter: apierrors.NewReporter(log.Logger),
		Limiter:  middleware.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
		Banks:    services.NewBankService(db, bankRepo, userRepo),
		Timers:   services.NewTimerService(db, timerRepo, userRepo),
		Trees:    services.NewTreeService(db, treeRepo, userRepo),
		Users:    services.NewUserService(userRepo),
		Health:   checker,
	})
	if err != nil {
		return err
	}

	// Start server
	srv := server.New(log.Logger, fmt.Sprintf(":%d", cfg.Server.Port), router, cfg.Server.ShutdownTimeout)
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}

	log.Info("tree-api stopped")
	return nil
}
