package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"building_scheduler/internal/config"
	"building_scheduler/internal/handlers"
	"building_scheduler/internal/logger"
	"building_scheduler/internal/metrics"
	"building_scheduler/internal/repository"
	"building_scheduler/internal/repository/db"
	"building_scheduler/internal/server"
	"building_scheduler/internal/service"
)

func main() {
	// load configs/config.yml, overridden by BSCHED_* env
	cfg, err := config.Load("configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading config: %v\n", err)
		os.Exit(1)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB (operators, change journal and, for the sqlite driver, schedules)
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	if cfg.Metrics.Enabled {
		metrics.Init()
	}

	// wire dependencies
	repos := repository.NewRepository(conn, openStore(cfg, conn))
	services := service.NewService(repos, service.Options{
		AtomicEdit: cfg.Events.AtomicEdit,
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		AuthEnabled:    cfg.Auth.Enabled,
		MetricsEnabled: cfg.Metrics.Enabled,
		StreamInterval: cfg.WS.Interval,
	})

	log.Infow("starting",
		"port", cfg.Port,
		"storage_driver", cfg.Storage.Driver,
		"auth_enabled", cfg.Auth.Enabled,
		"atomic_edit", cfg.Events.AtomicEdit,
	)

	// start HTTP server
	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, cfg.Server.ShutdownTimeout, log)
}

// openStore selects the schedule record backend.
func openStore(cfg config.Config, conn *sql.DB) repository.Store {
	if cfg.Storage.Driver == config.DriverSQLite {
		return repository.Instrument(config.DriverSQLite, repository.NewSQLiteStore(conn))
	}
	return repository.Instrument(config.DriverFile, repository.NewFileStore(cfg.Storage.Dir))
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
