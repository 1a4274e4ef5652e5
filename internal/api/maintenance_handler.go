package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/service"
)

const (
	setupMessage      = "Database setup completed successfully!"
	connectionMessage = "Database connection successful"
)

// MaintenanceHandler serves the demo data and connectivity endpoints.
type MaintenanceHandler struct {
	maintenance service.MaintenanceService
	logger      *slog.Logger
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(maintenance service.MaintenanceService, logger *slog.Logger) *MaintenanceHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for MaintenanceHandler")
	}
	return &MaintenanceHandler{
		maintenance: maintenance,
		logger:      logger.With(slog.String("component", "maintenance_handler")),
	}
}

// Seed handles POST /api/seed
func (h *MaintenanceHandler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.maintenance.Seed(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to seed database")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SeedResponse{OK: true, Result: result})
}

// Setup handles POST /api/init-db and /api/setup
func (h *MaintenanceHandler) Setup(w http.ResponseWriter, r *http.Request) {
	result, err := h.maintenance.Initialize(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to setup database")
		return
	}
	h.logger.Info("database initialized",
		slog.Int("users", result.Seeded.Users),
		slog.Int("patients", result.Seeded.Patients))
	shared.RespondWithJSON(w, r, http.StatusOK, SetupResponse{
		Success: true,
		Message: setupMessage,
		Data:    result,
	})
}

// TestConnection handles GET /api/test-db
func (h *MaintenanceHandler) TestConnection(w http.ResponseWriter, r *http.Request) {
	status, err := h.maintenance.TestConnection(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Database connection failed")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ConnectionResponse{
		Success:     true,
		Message:     connectionMessage,
		Database:    status.Database,
		Collections: status.Collections,
	})
}
