package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/pocket-doctor/internal/config"
	"github.com/phrazzld/pocket-doctor/internal/notify"
	"github.com/phrazzld/pocket-doctor/internal/platform/llm"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/platform/twilio"
	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/phrazzld/pocket-doctor/internal/service/assistant"
	"github.com/urfave/cli/v2"
)

// services groups everything the router dispatches to.
type services struct {
	patients      service.PatientService
	appointments  service.AppointmentService
	directory     service.DirectoryService
	prescriptions service.PrescriptionService
	reports       service.ReportService
	maintenance   service.MaintenanceService
	assistant     assistant.Service
}

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	docs     *openedStore
	services services
}

// bootstrap loads configuration and sets up structured logging.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"llm_provider", cfg.LLM.Provider)
	log.Debug("Notification configuration", "twilio_enabled", cfg.Notify.Enabled())
	return cfg, log, nil
}

// newApplication creates the services on top of an open document store.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger, docs *openedStore) (*application, error) {
	backend, err := llm.NewBackend(ctx, log.With("component", "llm_backend"), cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM backend: %w", err)
	}
	assistantSvc, err := assistant.NewService(backend, log, assistant.WithProvider(cfg.LLM.Provider))
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant service: %w", err)
	}
	log.Info("LLM backend initialized successfully", "provider", cfg.LLM.Provider, "model", cfg.LLM.ModelName)

	sender, err := newSender(cfg.Notify, log)
	if err != nil {
		return nil, err
	}

	svc, err := newServices(service.NewRepositories(docs), docs.name, sender, log)
	if err != nil {
		return nil, err
	}
	svc.assistant = assistantSvc

	log.Info("Application initialized successfully")
	return &application{config: cfg, logger: log, docs: docs, services: svc}, nil
}

// newServices builds the document-backed services. The assistant is wired
// separately because it needs an LLM backend.
func newServices(repos *service.Repositories, database string, sender notify.Sender, log *slog.Logger) (services, error) {
	var (
		svc services
		err error
	)
	if svc.patients, err = service.NewPatientService(repos, log); err != nil {
		return svc, fmt.Errorf("failed to create patient service: %w", err)
	}
	if svc.appointments, err = service.NewAppointmentService(repos, log); err != nil {
		return svc, fmt.Errorf("failed to create appointment service: %w", err)
	}
	if svc.directory, err = service.NewDirectoryService(repos, log); err != nil {
		return svc, fmt.Errorf("failed to create directory service: %w", err)
	}
	if svc.prescriptions, err = service.NewPrescriptionService(repos, log); err != nil {
		return svc, fmt.Errorf("failed to create prescription service: %w", err)
	}
	if svc.reports, err = service.NewReportService(repos, sender, log); err != nil {
		return svc, fmt.Errorf("failed to create report service: %w", err)
	}
	if svc.maintenance, err = service.NewMaintenanceService(repos, database, log); err != nil {
		return svc, fmt.Errorf("failed to create maintenance service: %w", err)
	}
	return svc, nil
}

// newSender picks Twilio WhatsApp delivery when configured and falls back to
// logging the message.
func newSender(cfg config.NotifyConfig, log *slog.Logger) (notify.Sender, error) {
	if !cfg.Enabled() {
		log.Info("Twilio not configured, adherence reports will be logged only")
		return notify.NewLogSender(log), nil
	}
	sender, err := twilio.NewWhatsAppSender(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize WhatsApp sender: %w", err)
	}
	return sender, nil
}

// withMaintenance opens the store for a one-shot maintenance command.
func withMaintenance(c *cli.Context, fn func(service.MaintenanceService) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	docs, err := openStore(c.Context, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := docs.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
		}
	}()

	maintenance, err := service.NewMaintenanceService(service.NewRepositories(docs), docs.name, log)
	if err != nil {
		return err
	}
	return fn(maintenance)
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	timeout := time.Duration(app.config.Server.RequestTimeoutSeconds) * time.Second
	router := newRouter(app.services, app.logger, timeout)

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.docs != nil {
		if err := app.docs.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
