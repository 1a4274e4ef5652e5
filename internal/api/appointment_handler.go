package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/service"
)

// AppointmentHandler handles appointment requests.
type AppointmentHandler struct {
	appointments service.AppointmentService
	logger       *slog.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler
func NewAppointmentHandler(appointments service.AppointmentService, logger *slog.Logger) *AppointmentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AppointmentHandler")
	}
	return &AppointmentHandler{
		appointments: appointments,
		logger:       logger.With(slog.String("component", "appointment_handler")),
	}
}

// ListAppointments handles GET /api/appointments?patientId=&doctorId=
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	appointments, err := h.appointments.ListAppointments(r.Context(), service.AppointmentFilter{
		PatientID: query.Get("patientId"),
		DoctorID:  query.Get("doctorId"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch appointments")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, appointments)
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	appointment, err := h.appointments.CreateAppointment(r.Context(), domain.Appointment{
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
		Status:      domain.AppointmentStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create appointment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, AppointmentResponse{
		CreatedResponse: CreatedResponse{Success: true, ID: appointment.ID},
		Appointment:     appointment,
	})
}

// UpdateAppointment handles PATCH /api/appointments/{id}
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}
	var req UpdateAppointmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	appointment, err := h.appointments.UpdateStatus(r.Context(), params[0], domain.AppointmentStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update appointment")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AppointmentResponse{
		CreatedResponse: CreatedResponse{Success: true, ID: appointment.ID},
		Appointment:     appointment,
	})
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}

	if err := h.appointments.DeleteAppointment(r.Context(), params[0]); err != nil {
		HandleAPIError(w, r, err, "Failed to delete appointment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
