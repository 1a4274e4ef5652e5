package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/service"
)

// ReportHandler serves adherence reports and prescription listings.
type ReportHandler struct {
	reports       service.ReportService
	prescriptions service.PrescriptionService
	logger        *slog.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(
	reports service.ReportService,
	prescriptions service.PrescriptionService,
	logger *slog.Logger,
) *ReportHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReportHandler")
	}
	return &ReportHandler{
		reports:       reports,
		prescriptions: prescriptions,
		logger:        logger.With(slog.String("component", "report_handler")),
	}
}

// GetAdherence handles GET /api/patients/{id}/adherence
func (h *ReportHandler) GetAdherence(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}

	report, err := h.reports.Adherence(r.Context(), params[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to compute adherence")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// ShareAdherence handles POST /api/patients/{id}/adherence/share
func (h *ReportHandler) ShareAdherence(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req ShareReportRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	result, err := h.reports.ShareAdherence(r.Context(), params[0], req.ContactID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to share adherence report")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ShareResponse{Success: true, ShareResult: result})
}

// ListPrescriptions handles GET /api/prescriptions
func (h *ReportHandler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := h.prescriptions.ListPrescriptions(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch prescriptions")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, prescriptions)
}
