package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentService(t *testing.T) {
	repos, log := newSeededRepos(t)
	svc, err := service.NewAppointmentService(repos, log, service.WithIDGenerator(sequentialIDs("appt")))
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.CreateAppointment(ctx, domain.Appointment{
		PatientID:   "user-patient-2",
		DoctorID:    "user-doctor-2",
		Date:        "2025-04-02",
		Time:        "09:15",
		Description: "Follow-up",
	})
	require.NoError(t, err)
	assert.Equal(t, "appt-1", created.ID)
	assert.Equal(t, domain.AppointmentScheduled, created.Status)

	t.Run("list all", func(t *testing.T) {
		all, err := svc.ListAppointments(ctx, service.AppointmentFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("by patient", func(t *testing.T) {
		byPatient, err := svc.ListAppointments(ctx, service.AppointmentFilter{PatientID: "user-patient-2"})
		require.NoError(t, err)
		require.Len(t, byPatient, 2)
		assert.Equal(t, "appointment-2", byPatient[0].ID)
		assert.Equal(t, "appt-1", byPatient[1].ID)
	})

	t.Run("doctor wins over patient", func(t *testing.T) {
		byDoctor, err := svc.ListAppointments(ctx, service.AppointmentFilter{
			PatientID: "user-patient-2",
			DoctorID:  "user-doctor-1",
		})
		require.NoError(t, err)
		require.Len(t, byDoctor, 2)
		assert.Equal(t, "appointment-1", byDoctor[0].ID)
	})

	t.Run("update status", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, "appt-1", domain.AppointmentCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.AppointmentCompleted, updated.Status)

		_, err = svc.UpdateStatus(ctx, "appt-1", "postponed")
		assert.ErrorIs(t, err, domain.ErrInvalidAppointmentStatus)

		_, err = svc.UpdateStatus(ctx, "appt-404", domain.AppointmentCancelled)
		assert.ErrorIs(t, err, service.ErrAppointmentNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteAppointment(ctx, "appt-1"))
		assert.ErrorIs(t, svc.DeleteAppointment(ctx, "appt-1"), service.ErrAppointmentNotFound)
	})
}

func TestAppointmentServiceCreateInvalid(t *testing.T) {
	repos, log := newTestRepos(t)
	svc, err := service.NewAppointmentService(repos, log)
	require.NoError(t, err)

	_, err = svc.CreateAppointment(context.Background(), domain.Appointment{
		PatientID: "user-patient-1",
		DoctorID:  "user-doctor-1",
		Date:      "next tuesday",
		Time:      "10:00",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}
