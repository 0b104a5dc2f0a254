package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/task-tracker/api"
	"github.com/frahmantamala/task-tracker/internal"
	"github.com/frahmantamala/task-tracker/internal/auth"
	authPostgres "github.com/frahmantamala/task-tracker/internal/auth/postgres"
	"github.com/frahmantamala/task-tracker/internal/cache"
	"github.com/frahmantamala/task-tracker/internal/core/events"
	"github.com/frahmantamala/task-tracker/internal/database"
	"github.com/frahmantamala/task-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/task-tracker/internal/department/postgres"
	"github.com/frahmantamala/task-tracker/internal/position"
	positionPostgres "github.com/frahmantamala/task-tracker/internal/position/postgres"
	"github.com/frahmantamala/task-tracker/internal/task"
	taskPostgres "github.com/frahmantamala/task-tracker/internal/task/postgres"
	"github.com/frahmantamala/task-tracker/internal/timeentry"
	timeEntryPostgres "github.com/frahmantamala/task-tracker/internal/timeentry/postgres"
	"github.com/frahmantamala/task-tracker/internal/transport"
	"github.com/frahmantamala/task-tracker/internal/transport/rest"
	"github.com/frahmantamala/task-tracker/internal/worker"
	workerPostgres "github.com/frahmantamala/task-tracker/internal/worker/postgres"
	"github.com/frahmantamala/task-tracker/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/redis/rueidis"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *database.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Redis    rueidis.Client
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("Failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "driver", deps.Config.Database.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.EventBus.Wait()
		if deps.Redis != nil {
			deps.Redis.Close()
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	ctx := context.Background()
	if _, err := api.Load(ctx); err != nil {
		return err
	}

	cfg := deps.Config
	gdb := deps.DB.Gorm
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(gdb), tokens, cfg.Security.BCryptCost, lg)

	taskService := task.NewService(taskPostgres.NewTaskRepository(gdb), lg)
	taskService.SubscribeTimeEntryEvents(deps.EventBus)
	if deps.Redis != nil {
		taskService.WithCache(cache.NewRedis(deps.Redis, cfg.Cache.KeyPrefix), cfg.Cache.MetadataTTL)
	}
	events.SubscribeAuditLog(deps.EventBus, lg)

	health := rest.NewHealthHandler(base, deps.DB, cfg.Database.Driver)
	if deps.Redis != nil {
		health.WithCheck("redis", cache.NewRedis(deps.Redis, cfg.Cache.KeyPrefix))
	}

	handlers := rest.Handlers{
		Health:     health,
		Auth:       auth.NewHandler(base, authService),
		Department: department.NewHandler(base, department.NewService(departmentPostgres.NewDepartmentRepository(gdb), lg)),
		Position:   position.NewHandler(base, position.NewService(positionPostgres.NewPositionRepository(gdb), lg)),
		Worker:     worker.NewHandler(base, worker.NewService(workerPostgres.NewWorkerRepository(gdb), lg)),
		Task:       task.NewHandler(base, taskService),
		TimeEntry:  timeentry.NewHandler(base, timeentry.NewService(timeEntryPostgres.NewTimeEntryRepository(gdb), deps.EventBus, lg)),
	}

	rest.RegisterAllRoutes(deps.Router, handlers, rest.RouterOptions{
		AllowedOrigins: cfg.Server.Origins(),
		OpenAPISpec:    api.Spec,
	}, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := setup()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := database.Open(config.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if config.Database.AutoMigrate {
		if err := database.AutoMigrate(context.Background(), db.Gorm); err != nil {
			_ = db.Close()
			return nil, err
		}
		lg.Info("database schema migrated", "driver", config.Database.Driver)
	}

	var redis rueidis.Client
	if config.Cache.Enabled() {
		redis, err = cache.NewRedisClient(config.Cache.RedisAddr, config.Cache.RedisPassword, config.Cache.RedisDB)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		lg.Info("redis cache enabled", "address", config.Cache.RedisAddr)
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Router:   chi.NewRouter(),
		EventBus: events.NewEventBus(lg),
		Redis:    redis,
	}, nil
}
