package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/mocks"
	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAppointmentsPassesFilter(t *testing.T) {
	var got service.AppointmentFilter
	svc := &mocks.MockAppointmentService{
		ListAppointmentsFn: func(ctx context.Context, filter service.AppointmentFilter) ([]domain.Appointment, error) {
			got = filter
			return []domain.Appointment{}, nil
		},
	}
	h := NewAppointmentHandler(svc, testLogger(t))

	rec := serve(t, http.MethodGet, "/api/appointments", h.ListAppointments,
		"/api/appointments?patientId=user-patient-1&doctorId=user-doctor-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.AppointmentFilter{PatientID: "user-patient-1", DoctorID: "user-doctor-1"}, got)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateAppointment(t *testing.T) {
	var got domain.Appointment
	svc := &mocks.MockAppointmentService{
		CreateAppointmentFn: func(ctx context.Context, a domain.Appointment) (*domain.Appointment, error) {
			got = a
			if a.Time == "25:00" {
				return nil, &domain.ValidationError{Entity: "appointment", Fields: []domain.FieldError{{Field: "time", Message: "must be HH:mm"}}}
			}
			a.ID = "appt-1"
			a.Status = domain.AppointmentScheduled
			return &a, nil
		},
	}
	h := NewAppointmentHandler(svc, testLogger(t))
	body := map[string]string{
		"patientId": "user-patient-1", "doctorId": "user-doctor-1",
		"date": "2025-03-25", "time": "10:00", "description": "Follow-up",
	}

	rec := serve(t, http.MethodPost, "/api/appointments", h.CreateAppointment, "/api/appointments", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeJSON[AppointmentResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "appt-1", resp.ID)
	assert.Equal(t, domain.AppointmentScheduled, resp.Appointment.Status)
	assert.Empty(t, got.Status, "status defaulting is left to the service")

	body["time"] = "25:00"
	rec = serve(t, http.MethodPost, "/api/appointments", h.CreateAppointment, "/api/appointments", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid appointment: time must be HH:mm", decodeError(t, rec).Error)

	delete(body, "doctorId")
	rec = serve(t, http.MethodPost, "/api/appointments", h.CreateAppointment, "/api/appointments", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid doctorID: required field", decodeError(t, rec).Error)
}

func TestUpdateAppointment(t *testing.T) {
	svc := &mocks.MockAppointmentService{
		UpdateStatusFn: func(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
			if id == "missing" {
				return nil, service.ErrAppointmentNotFound
			}
			if !status.Valid() {
				return nil, domain.ErrInvalidAppointmentStatus
			}
			return &domain.Appointment{ID: id, Status: status}, nil
		},
	}
	h := NewAppointmentHandler(svc, testLogger(t))
	const pattern = "/api/appointments/{id}"

	rec := serve(t, http.MethodPatch, pattern, h.UpdateAppointment, "/api/appointments/appt-1",
		map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.AppointmentCompleted, decodeJSON[AppointmentResponse](t, rec).Appointment.Status)

	rec = serve(t, http.MethodPatch, pattern, h.UpdateAppointment, "/api/appointments/appt-1",
		map[string]string{"status": "postponed"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Status must be scheduled, completed or cancelled", decodeError(t, rec).Error)

	rec = serve(t, http.MethodPatch, pattern, h.UpdateAppointment, "/api/appointments/missing",
		map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAppointment(t *testing.T) {
	var deleted string
	svc := &mocks.MockAppointmentService{
		DeleteAppointmentFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewAppointmentHandler(svc, testLogger(t))

	rec := serve(t, http.MethodDelete, "/api/appointments/{id}", h.DeleteAppointment, "/api/appointments/appt-1", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "appt-1", deleted)
	assert.Empty(t, rec.Body.String())
}
