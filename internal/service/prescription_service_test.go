package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrescriptionServiceList(t *testing.T) {
	repos, log := newSeededRepos(t)
	svc, err := service.NewPrescriptionService(repos, log)
	require.NoError(t, err)

	prescriptions, err := svc.ListPrescriptions(context.Background())
	require.NoError(t, err)

	require.Len(t, prescriptions, 4)
	names := make([]string, 0, len(prescriptions))
	for _, p := range prescriptions {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Metformin", "Lisinopril", "Atorvastatin", "Amlodipine"}, names)
	assert.Equal(t, "user-patient-1", prescriptions[0].PatientID)
	assert.Equal(t, "John Doe", prescriptions[0].PatientName)
	assert.Equal(t, "user-doctor-1", prescriptions[3].DoctorID)
	assert.Equal(t, "Emily Smith", prescriptions[3].PatientName)
}

func TestPrescriptionServiceListEmpty(t *testing.T) {
	repos, log := newTestRepos(t)
	svc, err := service.NewPrescriptionService(repos, log)
	require.NoError(t, err)

	prescriptions, err := svc.ListPrescriptions(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, prescriptions)
	assert.Empty(t, prescriptions)
}
