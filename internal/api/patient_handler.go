package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/service"
)

// PatientHandler handles patient records and the medications, doses,
// contacts and history nested in them.
type PatientHandler struct {
	patients service.PatientService
	logger   *slog.Logger
}

// NewPatientHandler creates a new PatientHandler
func NewPatientHandler(patients service.PatientService, logger *slog.Logger) *PatientHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PatientHandler")
	}
	return &PatientHandler{
		patients: patients,
		logger:   logger.With(slog.String("component", "patient_handler")),
	}
}

// ListPatients handles GET /api/patients
func (h *PatientHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patients.ListPatients(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch patients")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, patients)
}

// GetPatient handles GET /api/patients/{id}
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}

	patient, err := h.patients.GetPatient(r.Context(), params[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch patient")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, patient)
}

// CreatePatient handles POST /api/patients
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreatePatientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	patient, err := h.patients.CreatePatient(r.Context(), req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create patient")
		return
	}

	log.Debug("patient created", slog.String("patient_id", patient.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, PatientResponse{Success: true, Patient: patient})
}

// UpdateMedicalHistory handles PUT /api/patients/{id}/medical-history
func (h *PatientHandler) UpdateMedicalHistory(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req MedicalHistoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	patient, err := h.patients.UpdateMedicalHistory(r.Context(), params[0], domain.MedicalHistory{
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update medical history")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, PatientResponse{Success: true, Patient: patient})
}

// AddMedication handles POST /api/patients/{id}/medications
func (h *PatientHandler) AddMedication(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req AddMedicationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	med, err := h.patients.AddMedication(r.Context(), params[0], req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add medication")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, MedicationResponse{Success: true, Medication: med})
}

// RemoveMedication handles DELETE /api/patients/{id}/medications/{medicationId}
func (h *PatientHandler) RemoveMedication(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id", "medicationId")
	if !ok {
		return
	}

	if err := h.patients.RemoveMedication(r.Context(), params[0], params[1]); err != nil {
		HandleAPIError(w, r, err, "Failed to remove medication")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// RecordDose handles POST /api/patients/{id}/medications/{medicationId}/doses
func (h *PatientHandler) RecordDose(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id", "medicationId")
	if !ok {
		return
	}
	var req RecordDoseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	med, err := h.patients.RecordDose(r.Context(), params[0], params[1], service.DoseInput{
		Scheduled: req.Scheduled,
		Status:    domain.DoseStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record dose")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, MedicationResponse{Success: true, Medication: med})
}

// AddContact handles POST /api/patients/{id}/contacts
func (h *PatientHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req AddContactRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	contact, err := h.patients.AddContact(r.Context(), params[0], service.ContactInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add emergency contact")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, ContactResponse{Success: true, Contact: contact})
}

// RemoveContact handles DELETE /api/patients/{id}/contacts/{contactId}
func (h *PatientHandler) RemoveContact(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id", "contactId")
	if !ok {
		return
	}

	if err := h.patients.RemoveContact(r.Context(), params[0], params[1]); err != nil {
		HandleAPIError(w, r, err, "Failed to remove emergency contact")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}
