package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/mocks"
	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePatient() *domain.Patient {
	return &domain.Patient{
		ID:          "user-patient-1",
		Name:        "John Doe",
		Email:       "john.doe@example.com",
		Role:        domain.RolePatient,
		Fallback:    "JD",
		PatientCode: "AB12CD",
		DoctorID:    "user-doctor-1",
		Medications: []domain.Medication{},
	}
}

func TestNewPatientHandlerPanicsWithoutLogger(t *testing.T) {
	assert.Panics(t, func() { NewPatientHandler(&mocks.MockPatientService{}, nil) })
}

func TestListPatients(t *testing.T) {
	t.Run("returns a bare array", func(t *testing.T) {
		svc := &mocks.MockPatientService{
			ListPatientsFn: func(ctx context.Context) ([]domain.Patient, error) {
				return []domain.Patient{*samplePatient()}, nil
			},
		}
		h := NewPatientHandler(svc, testLogger(t))

		rec := serve(t, http.MethodGet, "/api/patients", h.ListPatients, "/api/patients", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		patients := decodeJSON[[]domain.Patient](t, rec)
		require.Len(t, patients, 1)
		assert.Equal(t, "John Doe", patients[0].Name)
	})

	t.Run("store failure uses fallback message", func(t *testing.T) {
		svc := &mocks.MockPatientService{
			ListPatientsFn: func(ctx context.Context) ([]domain.Patient, error) {
				return nil, fmt.Errorf("query documents: connection refused")
			},
		}
		h := NewPatientHandler(svc, testLogger(t))

		rec := serve(t, http.MethodGet, "/api/patients", h.ListPatients, "/api/patients", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to fetch patients", decodeError(t, rec).Error)
	})
}

func TestGetPatient(t *testing.T) {
	var gotID string
	svc := &mocks.MockPatientService{
		GetPatientFn: func(ctx context.Context, id string) (*domain.Patient, error) {
			gotID = id
			if id == "missing" {
				return nil, service.ErrPatientNotFound
			}
			return samplePatient(), nil
		},
	}
	h := NewPatientHandler(svc, testLogger(t))

	rec := serve(t, http.MethodGet, "/api/patients/{id}", h.GetPatient, "/api/patients/user-patient-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-patient-1", gotID)
	assert.Equal(t, "AB12CD", decodeJSON[domain.Patient](t, rec).PatientCode)

	rec = serve(t, http.MethodGet, "/api/patients/{id}", h.GetPatient, "/api/patients/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient not found", decodeError(t, rec).Error)
}

func TestCreatePatient(t *testing.T) {
	tests := []struct {
		name         string
		body         any
		serviceErr   error
		expectStatus int
		expectError  string
	}{
		{
			name: "created",
			body: map[string]any{
				"name": "Ada Lovelace", "email": "ada@example.com",
				"doctorId": "user-doctor-1", "appointments": map[string]string{"next": "2025-04-01"},
			},
			expectStatus: http.StatusCreated,
		},
		{
			name:         "missing email",
			body:         map[string]any{"name": "Ada"},
			expectStatus: http.StatusBadRequest,
			expectError:  "Invalid email: required field",
		},
		{
			name:         "malformed json",
			body:         `{"name":`,
			expectStatus: http.StatusBadRequest,
			expectError:  "Invalid request format",
		},
		{
			name:         "unknown doctor",
			body:         map[string]any{"name": "Ada", "email": "ada@example.com", "doctorId": "nobody"},
			serviceErr:   fmt.Errorf("link doctor: %w", service.ErrUserNotFound),
			expectStatus: http.StatusNotFound,
			expectError:  "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.NewPatientInput
			svc := &mocks.MockPatientService{
				CreatePatientFn: func(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error) {
					got = in
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					p := samplePatient()
					p.Name = in.Name
					return p, nil
				},
			}
			h := NewPatientHandler(svc, testLogger(t))

			rec := serve(t, http.MethodPost, "/api/patients", h.CreatePatient, "/api/patients", tt.body)

			assert.Equal(t, tt.expectStatus, rec.Code)
			if tt.expectError != "" {
				assert.Equal(t, tt.expectError, decodeError(t, rec).Error)
				return
			}
			resp := decodeJSON[PatientResponse](t, rec)
			assert.True(t, resp.Success)
			assert.Equal(t, "Ada Lovelace", resp.Patient.Name)
			assert.Equal(t, "2025-04-01", got.Appointments.Next)
			assert.Equal(t, "user-doctor-1", got.DoctorID)
		})
	}
}

func TestUpdateMedicalHistory(t *testing.T) {
	var got domain.MedicalHistory
	svc := &mocks.MockPatientService{
		UpdateMedicalHistoryFn: func(ctx context.Context, id string, h domain.MedicalHistory) (*domain.Patient, error) {
			got = h
			p := samplePatient()
			p.MedicalHistory = h
			return p, nil
		},
	}
	h := NewPatientHandler(svc, testLogger(t))

	rec := serve(t, http.MethodPut, "/api/patients/{id}/medical-history", h.UpdateMedicalHistory,
		"/api/patients/user-patient-1/medical-history",
		map[string]string{"allergies": "Penicillin", "chronicConditions": "Asthma"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.MedicalHistory{Allergies: "Penicillin", ChronicConditions: "Asthma"}, got)
	assert.Equal(t, "Asthma", decodeJSON[PatientResponse](t, rec).Patient.MedicalHistory.ChronicConditions)
}

func TestAddMedication(t *testing.T) {
	var got domain.MedicationInput
	svc := &mocks.MockPatientService{
		AddMedicationFn: func(ctx context.Context, id string, in domain.MedicationInput) (*domain.Medication, error) {
			got = in
			if in.Schedule != nil && in.Schedule.IntervalHours == 0 {
				return nil, &domain.ValidationError{Entity: "medication", Fields: []domain.FieldError{{Field: "interval", Message: "must be positive"}}}
			}
			return &domain.Medication{ID: "med-1", Name: in.Name, Timings: []string{"08:00", "12:00", "16:00"}}, nil
		},
	}
	h := NewPatientHandler(svc, testLogger(t))
	const target = "/api/patients/user-patient-1/medications"
	const pattern = "/api/patients/{id}/medications"

	t.Run("from schedule", func(t *testing.T) {
		rec := serve(t, http.MethodPost, pattern, h.AddMedication, target, map[string]any{
			"name": "Metformin", "dosage": "500mg", "frequency": "Every 4 hours",
			"schedule": map[string]any{"startTime": "08:00", "endTime": "16:00", "interval": 4},
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, got.Schedule)
		assert.Equal(t, 4, got.Schedule.IntervalHours)
		resp := decodeJSON[MedicationResponse](t, rec)
		assert.Equal(t, []string{"08:00", "12:00", "16:00"}, resp.Medication.Timings)
	})

	t.Run("timings or schedule required", func(t *testing.T) {
		rec := serve(t, http.MethodPost, pattern, h.AddMedication, target, map[string]any{
			"name": "Metformin", "dosage": "500mg", "frequency": "Daily",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid timings: required field", decodeError(t, rec).Error)
	})
}

func TestRecordDose(t *testing.T) {
	tests := []struct {
		name         string
		body         map[string]string
		serviceErr   error
		expectStatus int
	}{
		{"taken", map[string]string{"scheduled": "08:00", "status": "taken"}, nil, http.StatusOK},
		{"pending is not a recordable status", map[string]string{"scheduled": "08:00", "status": "pending"}, nil, http.StatusBadRequest},
		{"already recorded", map[string]string{"scheduled": "08:00", "status": "skipped"}, domain.ErrDoseNotPending, http.StatusConflict},
		{"no such dose", map[string]string{"scheduled": "03:00", "status": "taken"}, domain.ErrDoseNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMedID string
			var gotInput service.DoseInput
			svc := &mocks.MockPatientService{
				RecordDoseFn: func(ctx context.Context, id, medicationID string, in service.DoseInput) (*domain.Medication, error) {
					gotMedID, gotInput = medicationID, in
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &domain.Medication{ID: medicationID, Doses: []domain.Dose{{Scheduled: in.Scheduled, Status: in.Status}}}, nil
				},
			}
			h := NewPatientHandler(svc, testLogger(t))

			rec := serve(t, http.MethodPost, "/api/patients/{id}/medications/{medicationId}/doses", h.RecordDose,
				"/api/patients/user-patient-1/medications/1/doses", tt.body)

			assert.Equal(t, tt.expectStatus, rec.Code)
			if tt.expectStatus == http.StatusOK {
				assert.Equal(t, "1", gotMedID)
				assert.Equal(t, domain.DoseStatus("taken"), gotInput.Status)
			}
		})
	}
}

func TestContacts(t *testing.T) {
	var removed string
	svc := &mocks.MockPatientService{
		AddContactFn: func(ctx context.Context, id string, in service.ContactInput) (*domain.EmergencyContact, error) {
			return &domain.EmergencyContact{ID: "c-1", Name: in.Name, Phone: in.Phone, Initials: "JD"}, nil
		},
		RemoveContactFn: func(ctx context.Context, id, contactID string) error {
			removed = contactID
			if contactID == "missing" {
				return domain.ErrContactNotFound
			}
			return nil
		},
	}
	h := NewPatientHandler(svc, testLogger(t))

	rec := serve(t, http.MethodPost, "/api/patients/{id}/contacts", h.AddContact,
		"/api/patients/p/contacts", map[string]string{"name": "Jane Doe", "phone": "555-123-4567"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "JD", decodeJSON[ContactResponse](t, rec).Contact.Initials)

	rec = serve(t, http.MethodPost, "/api/patients/{id}/contacts", h.AddContact,
		"/api/patients/p/contacts", map[string]string{"name": "Jane Doe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, http.MethodDelete, "/api/patients/{id}/contacts/{contactId}", h.RemoveContact,
		"/api/patients/p/contacts/c-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-1", removed)
	assert.True(t, decodeJSON[SuccessResponse](t, rec).Success)

	rec = serve(t, http.MethodDelete, "/api/patients/{id}/contacts/{contactId}", h.RemoveContact,
		"/api/patients/p/contacts/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveMedicationMissingParam(t *testing.T) {
	h := NewPatientHandler(&mocks.MockPatientService{}, testLogger(t))

	// Mounted without the medicationId parameter, so it resolves empty.
	rec := serve(t, http.MethodDelete, "/api/patients/{id}/medications", h.RemoveMedication,
		"/api/patients/p/medications", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing medicationId", decodeError(t, rec).Error)
}
