package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-citas/internal/audit"
	"github.com/BruksfildServices01/agenda-citas/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-citas/internal/db"
	domainAppointment "github.com/BruksfildServices01/agenda-citas/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-citas/internal/infra/cache"
	"github.com/BruksfildServices01/agenda-citas/internal/infra/events"
	"github.com/BruksfildServices01/agenda-citas/internal/logger"
	"github.com/BruksfildServices01/agenda-citas/internal/routes"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// STORAGE
	// ======================================================
	db, err := dbpkg.Open(dbpkg.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := dbpkg.Close(db); err != nil {
			log.Warn("db_close_failed", "error", err)
		}
	}()

	// ======================================================
	// OPTIONAL INFRA
	// ======================================================
	var calendarCache domainAppointment.CalendarCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()

		calendarCache = cache.NewCalendarRedisCache(client, cfg.Redis.CalendarTTL, logger.Module(log, "cache"))
		log.Info("calendar_cache_enabled", "ttl", cfg.Redis.CalendarTTL)
	}

	var publisher audit.Publisher
	if cfg.RabbitMQ.Enabled {
		p, err := events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger.Module(log, "events"))
		if err != nil {
			return err
		}
		defer p.Close()

		publisher = p
		log.Info("event_publisher_enabled", "exchange", cfg.RabbitMQ.Exchange)
	}

	dispatcher := audit.NewDispatcher(audit.New(db), publisher, cfg.Audit.QueueSize, logger.Module(log, "audit"))

	// ======================================================
	// HTTP
	// ======================================================
	if !cfg.IsLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Log:    logger.Module(log, "http"),
		Audit:  dispatcher,
		Cache:  calendarCache,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_started", "addr", cfg.Addr(), "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", "error", err)
	}

	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn("audit_dispatcher_stop_failed", "error", err)
	}

	log.Info("server_stopped")
	return serveErr
}
