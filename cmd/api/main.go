package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/itsupport-id/helpdesk-backend/internal/adapters/primary/http"
	mw "github.com/itsupport-id/helpdesk-backend/internal/adapters/primary/http/middleware"
	"github.com/itsupport-id/helpdesk-backend/internal/adapters/primary/websocket"
	"github.com/itsupport-id/helpdesk-backend/internal/adapters/secondary/jsonfile"
	"github.com/itsupport-id/helpdesk-backend/internal/adapters/secondary/postgres"
	"github.com/itsupport-id/helpdesk-backend/internal/config"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
	"github.com/itsupport-id/helpdesk-backend/internal/core/services"
	"github.com/itsupport-id/helpdesk-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"storage_driver", cfg.Storage.Driver,
	)

	// 3. Initialize the storage adapter for the configured driver
	ctx := context.Background()

	var (
		ticketRepo ports.TicketRepository
		storeCheck httpAdapter.HealthChecker
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool := mustOpenPostgres(ctx, cfg, logger)
		defer pool.Close()

		repo := postgres.NewTicketRepository(pool)
		ticketRepo = repo
		storeCheck = repo

	case config.DriverFile:
		repo, err := jsonfile.NewTicketRepository(cfg.Storage.FilePath, logger)
		if err != nil {
			logger.Error("failed to open ticket store", "path", cfg.Storage.FilePath, "error", err)
			os.Exit(1)
		}
		ticketRepo = repo
		storeCheck = repo

	default:
		logger.Error("unknown storage driver", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}

	// 4. Real-time hub
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. Rate Limiter
	var rateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		rlCfg := mw.DefaultRateLimiterConfig()
		rlCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rlCfg.BurstSize = cfg.RateLimit.BurstSize
		rateLimiter = mw.NewRateLimiter(rlCfg)
	}

	// 6. Dependency Injection (Wiring the Hexagon)
	errorHandler := httpAdapter.NewErrorHandler(logger)

	ticketService := services.NewTicketService(ticketRepo, hub, logger)
	reportService := services.NewReportService(ticketRepo)

	ticketHandler := httpAdapter.NewTicketHandler(ticketService, errorHandler, logger)
	reportHandler := httpAdapter.NewReportHandler(ticketService, reportService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(storeCheck, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
		MaxAge:         300,
	}))

	if rateLimiter != nil {
		r.Use(rateLimiter.Middleware)
	}

	// Health probes live outside /api/v1 for standard probe paths
	healthHandler.RegisterRoutes(r)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tickets", ticketHandler.RegisterRoutes)
		reportHandler.RegisterRoutes(r)
		r.Get("/ws", wsHandler.ServeHTTP)
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}

// mustOpenPostgres connects the pool, runs pending migrations, and exits the
// process on any failure.
func mustOpenPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	poolConfig, err := pgxpool.ParseConfig(cfg.Storage.DatabaseURL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Storage.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Storage.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Storage.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Storage.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	m, err := migrate.New("file://migrations", cfg.Storage.DatabaseURL)
	if err != nil {
		logger.Error("failed to initialize migrations", "error", err)
		os.Exit(1)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logger.Warn("closing migrator", "source_error", srcErr, "db_error", dbErr)
	}
	logger.Info("database migrations applied")

	return pool
}
