package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/service/assistant"
)

// AssistantHandler exposes the generation flows. Input is validated by the
// flows themselves against their declared schemas, so the handler only
// decodes the body.
type AssistantHandler struct {
	assistant assistant.Service
	logger    *slog.Logger
}

// NewAssistantHandler creates a new AssistantHandler
func NewAssistantHandler(svc assistant.Service, logger *slog.Logger) *AssistantHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AssistantHandler")
	}
	return &AssistantHandler{
		assistant: svc,
		logger:    logger.With(slog.String("component", "assistant_handler")),
	}
}

// MedicationGuide handles POST /api/assistant/guide
func (h *AssistantHandler) MedicationGuide(w http.ResponseWriter, r *http.Request) {
	var in assistant.MedicationGuideInput
	if !decodeBody(w, r, &in) {
		return
	}

	out, err := h.assistant.GetMedicationGuide(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate medication guide")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Ask handles POST /api/assistant/chat
func (h *AssistantHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var in assistant.MedicationAssistantInput
	if !decodeBody(w, r, &in) {
		return
	}

	out, err := h.assistant.AskAssistant(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to answer question")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// ParsePrescription handles POST /api/assistant/prescriptions/parse
func (h *AssistantHandler) ParsePrescription(w http.ResponseWriter, r *http.Request) {
	var in assistant.PrescriptionParserInput
	if !decodeBody(w, r, &in) {
		return
	}

	out, err := h.assistant.ParsePrescription(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to parse prescription")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
