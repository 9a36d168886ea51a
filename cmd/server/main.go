// Package main implements the entry point for the taskboard API server,
// which runs the deadline-reminder scheduler, the recurrence engine, and the
// notification dispatcher behind a small operational HTTP surface.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/fernwork/taskboard-api/internal/api"
	"github.com/fernwork/taskboard-api/internal/config"
	"github.com/fernwork/taskboard-api/internal/events"
	"github.com/fernwork/taskboard-api/internal/notify"
	"github.com/fernwork/taskboard-api/internal/platform/logger"
	"github.com/fernwork/taskboard-api/internal/platform/postgres"
	"github.com/fernwork/taskboard-api/internal/scheduler"
	"github.com/fernwork/taskboard-api/internal/service"
	"github.com/fernwork/taskboard-api/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run wires the application together and blocks until shutdown completes.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"tick_interval", cfg.Scheduler.TickInterval.String())

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("failed to close database", "error", err)
		}
	}()

	if err := applyMigrations(db); err != nil {
		return err
	}

	// Stores.
	taskStore := postgres.NewPostgresTaskStore(db)
	userStore := postgres.NewPostgresUserStore(db)
	templateStore := postgres.NewPostgresTemplateStore(db)
	notificationStore := postgres.NewPostgresNotificationStore(db)
	reminderStore := postgres.NewPostgresReminderStore(db)

	// Delivery channels. Either can be disabled by configuration; the
	// dispatcher treats a nil channel as "record only".
	var pushSender notify.PushSender
	if cfg.Push.Endpoint != "" {
		pushSender = notify.NewHTTPPushSender(cfg.Push.Endpoint, cfg.Push.APIKey)
	}

	var emailSender notify.EmailSender
	if cfg.SMTP.Host != "" {
		smtp, err := notify.NewSMTPEmailSender(cfg.SMTP)
		if err != nil {
			return fmt.Errorf("failed to set up email sender: %w", err)
		}
		emailSender = smtp
	}

	dispatcher := notify.NewDispatcher(
		notificationStore,
		userStore,
		pushSender,
		emailSender,
		cfg.Push.BatchSize,
		cfg.SMTP.RatePerSecond,
		appLogger,
	)

	// Events: status transitions fan out to an in-app notification for the
	// assignee.
	emitter := events.NewInMemoryEventEmitter(appLogger)
	emitter.RegisterHandler(notify.NewStatusChangeNotifier(dispatcher, appLogger))

	// Services.
	statusService, err := service.NewStatusService(taskStore, emitter, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create status service: %w", err)
	}

	recurrenceService, err := service.NewRecurrenceService(db, taskStore, templateStore, appLogger)
	if err != nil {
		return fmt.Errorf("failed to create recurrence service: %w", err)
	}

	// Scheduler.
	reminderScheduler := scheduler.New(
		userStore,
		taskStore,
		reminderStore,
		dispatcher,
		scheduler.Config{
			TickInterval: cfg.Scheduler.TickInterval,
			Workers:      cfg.Scheduler.Workers,
		},
		appLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := reminderScheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reminder scheduler: %w", err)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(api.RouterDeps{
			DB:                db,
			StatusService:     statusService,
			RecurrenceService: recurrenceService,
			NotificationStore: notificationStore,
			Logger:            appLogger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("http server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		reminderScheduler.Stop()
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		appLogger.Info("shutdown signal received")
	}

	// Stop the tick first so no new reminder work starts, then drain HTTP.
	// Stop blocks until an in-flight tick has finished.
	reminderScheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	appLogger.Info("server stopped cleanly")
	return nil
}

// openDatabase opens and verifies the connection pool.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// applyMigrations brings the schema up to date using the embedded migration
// files.
func applyMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("schema_migrations")
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	slog.Debug("database migrations applied")
	return nil
}
