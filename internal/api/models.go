package api

import (
	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/service"
)

// CreatePatientRequest is the body of POST /api/patients.
type CreatePatientRequest struct {
	Name         string                 `json:"name"         validate:"required"`
	Email        string                 `json:"email"        validate:"required,email"`
	DoctorID     string                 `json:"doctorId"`
	CaretakerID  string                 `json:"caretakerId"`
	Appointments domain.NextAppointment `json:"appointments"`
}

func (req CreatePatientRequest) input() domain.NewPatientInput {
	return domain.NewPatientInput{
		Name:         req.Name,
		Email:        req.Email,
		DoctorID:     req.DoctorID,
		CaretakerID:  req.CaretakerID,
		Appointments: req.Appointments,
	}
}

// MedicalHistoryRequest is the body of PUT /api/patients/{id}/medical-history.
type MedicalHistoryRequest struct {
	Allergies         string `json:"allergies"`
	ChronicConditions string `json:"chronicConditions"`
}

// AddMedicationRequest is the body of POST /api/patients/{id}/medications.
// Timings may be listed explicitly or derived from a schedule.
type AddMedicationRequest struct {
	Name      string           `json:"name"      validate:"required"`
	Dosage    string           `json:"dosage"    validate:"required"`
	Frequency string           `json:"frequency" validate:"required"`
	Timings   []string         `json:"timings"   validate:"required_without=Schedule"`
	Schedule  *domain.Schedule `json:"schedule"`
}

func (req AddMedicationRequest) input() domain.MedicationInput {
	return domain.MedicationInput{
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		Timings:   req.Timings,
		Schedule:  req.Schedule,
	}
}

// RecordDoseRequest is the body of POST .../medications/{medicationId}/doses.
type RecordDoseRequest struct {
	Scheduled string `json:"scheduled" validate:"required"`
	Status    string `json:"status"    validate:"required,oneof=taken skipped"`
}

// AddContactRequest is the body of POST /api/patients/{id}/contacts.
type AddContactRequest struct {
	Name  string `json:"name"  validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

// ShareReportRequest is the optional body of POST .../adherence/share.
type ShareReportRequest struct {
	ContactID string `json:"contactId"`
}

// CreateAppointmentRequest is the body of POST /api/appointments.
type CreateAppointmentRequest struct {
	PatientID   string `json:"patientId"   validate:"required"`
	DoctorID    string `json:"doctorId"    validate:"required"`
	Date        string `json:"date"        validate:"required"`
	Time        string `json:"time"        validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateAppointmentRequest is the body of PATCH /api/appointments/{id}.
type UpdateAppointmentRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateCaretakerRequest is the body of POST /api/caretakers.
type CreateCaretakerRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name"         validate:"required"`
	Email        string `json:"email"        validate:"required,email"`
	Avatar       string `json:"avatar"`
	PatientID    string `json:"patientId"`
	Relationship string `json:"relationship"`
}

// CreatedResponse holds the fields shared by create responses.
type CreatedResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// PatientResponse is returned by patient mutations.
type PatientResponse struct {
	Success bool            `json:"success"`
	Patient *domain.Patient `json:"patient"`
}

// MedicationResponse is returned by medication mutations.
type MedicationResponse struct {
	Success    bool               `json:"success"`
	Medication *domain.Medication `json:"medication"`
}

// ContactResponse is returned when an emergency contact is added.
type ContactResponse struct {
	Success bool                     `json:"success"`
	Contact *domain.EmergencyContact `json:"contact"`
}

// AppointmentResponse is returned by appointment mutations.
type AppointmentResponse struct {
	CreatedResponse
	Appointment *domain.Appointment `json:"appointment"`
}

// CaretakerResponse is returned when a caretaker is created.
type CaretakerResponse struct {
	CreatedResponse
	Caretaker *domain.Caretaker `json:"caretaker"`
}

// SessionResponse is returned by POST /api/session.
type SessionResponse struct {
	Success bool         `json:"success"`
	User    *domain.User `json:"user"`
}

// ShareResponse is returned by POST .../adherence/share.
type ShareResponse struct {
	Success bool `json:"success"`
	*service.ShareResult
}

// SuccessResponse acknowledges a mutation without a body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// SeedResponse is returned by POST /api/seed.
type SeedResponse struct {
	OK     bool                `json:"ok"`
	Result *service.SeedResult `json:"result"`
}

// SetupResponse is returned by POST /api/init-db and /api/setup.
type SetupResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    *service.InitResult `json:"data"`
}

// ConnectionResponse is returned by GET /api/test-db.
type ConnectionResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Database    string   `json:"database"`
	Collections []string `json:"collections"`
}
