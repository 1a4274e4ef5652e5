package mocks

import (
	"context"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/service"
	"github.com/phrazzld/pocket-doctor/internal/service/assistant"
)

// MockPatientService implements service.PatientService for testing.
type MockPatientService struct {
	ListPatientsFn         func(ctx context.Context) ([]domain.Patient, error)
	GetPatientFn           func(ctx context.Context, id string) (*domain.Patient, error)
	CreatePatientFn        func(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error)
	UpdateMedicalHistoryFn func(ctx context.Context, id string, h domain.MedicalHistory) (*domain.Patient, error)
	AddMedicationFn        func(ctx context.Context, id string, in domain.MedicationInput) (*domain.Medication, error)
	RemoveMedicationFn     func(ctx context.Context, id, medicationID string) error
	RecordDoseFn           func(ctx context.Context, id, medicationID string, in service.DoseInput) (*domain.Medication, error)
	AddContactFn           func(ctx context.Context, id string, in service.ContactInput) (*domain.EmergencyContact, error)
	RemoveContactFn        func(ctx context.Context, id, contactID string) error
}

var _ service.PatientService = (*MockPatientService)(nil)

// ListPatients implements service.PatientService.
func (m *MockPatientService) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	if m.ListPatientsFn != nil {
		return m.ListPatientsFn(ctx)
	}
	return []domain.Patient{}, nil
}

// GetPatient implements service.PatientService.
func (m *MockPatientService) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	if m.GetPatientFn != nil {
		return m.GetPatientFn(ctx, id)
	}
	return nil, service.ErrPatientNotFound
}

// CreatePatient implements service.PatientService.
func (m *MockPatientService) CreatePatient(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error) {
	if m.CreatePatientFn != nil {
		return m.CreatePatientFn(ctx, in)
	}
	return nil, nil
}

// UpdateMedicalHistory implements service.PatientService.
func (m *MockPatientService) UpdateMedicalHistory(
	ctx context.Context,
	id string,
	h domain.MedicalHistory,
) (*domain.Patient, error) {
	if m.UpdateMedicalHistoryFn != nil {
		return m.UpdateMedicalHistoryFn(ctx, id, h)
	}
	return nil, nil
}

// AddMedication implements service.PatientService.
func (m *MockPatientService) AddMedication(
	ctx context.Context,
	id string,
	in domain.MedicationInput,
) (*domain.Medication, error) {
	if m.AddMedicationFn != nil {
		return m.AddMedicationFn(ctx, id, in)
	}
	return nil, nil
}

// RemoveMedication implements service.PatientService.
func (m *MockPatientService) RemoveMedication(ctx context.Context, id, medicationID string) error {
	if m.RemoveMedicationFn != nil {
		return m.RemoveMedicationFn(ctx, id, medicationID)
	}
	return nil
}

// RecordDose implements service.PatientService.
func (m *MockPatientService) RecordDose(
	ctx context.Context,
	id, medicationID string,
	in service.DoseInput,
) (*domain.Medication, error) {
	if m.RecordDoseFn != nil {
		return m.RecordDoseFn(ctx, id, medicationID, in)
	}
	return nil, nil
}

// AddContact implements service.PatientService.
func (m *MockPatientService) AddContact(
	ctx context.Context,
	id string,
	in service.ContactInput,
) (*domain.EmergencyContact, error) {
	if m.AddContactFn != nil {
		return m.AddContactFn(ctx, id, in)
	}
	return nil, nil
}

// RemoveContact implements service.PatientService.
func (m *MockPatientService) RemoveContact(ctx context.Context, id, contactID string) error {
	if m.RemoveContactFn != nil {
		return m.RemoveContactFn(ctx, id, contactID)
	}
	return nil
}

// MockAppointmentService implements service.AppointmentService for testing.
type MockAppointmentService struct {
	ListAppointmentsFn  func(ctx context.Context, filter service.AppointmentFilter) ([]domain.Appointment, error)
	CreateAppointmentFn func(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)
	UpdateStatusFn      func(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)
	DeleteAppointmentFn func(ctx context.Context, id string) error
}

var _ service.AppointmentService = (*MockAppointmentService)(nil)

// ListAppointments implements service.AppointmentService.
func (m *MockAppointmentService) ListAppointments(
	ctx context.Context,
	filter service.AppointmentFilter,
) ([]domain.Appointment, error) {
	if m.ListAppointmentsFn != nil {
		return m.ListAppointmentsFn(ctx, filter)
	}
	return []domain.Appointment{}, nil
}

// CreateAppointment implements service.AppointmentService.
func (m *MockAppointmentService) CreateAppointment(
	ctx context.Context,
	a domain.Appointment,
) (*domain.Appointment, error) {
	if m.CreateAppointmentFn != nil {
		return m.CreateAppointmentFn(ctx, a)
	}
	return nil, nil
}

// UpdateStatus implements service.AppointmentService.
func (m *MockAppointmentService) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.AppointmentStatus,
) (*domain.Appointment, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}
	return nil, nil
}

// DeleteAppointment implements service.AppointmentService.
func (m *MockAppointmentService) DeleteAppointment(ctx context.Context, id string) error {
	if m.DeleteAppointmentFn != nil {
		return m.DeleteAppointmentFn(ctx, id)
	}
	return nil
}

// MockDirectoryService implements service.DirectoryService for testing.
type MockDirectoryService struct {
	ListUsersFn       func(ctx context.Context) ([]domain.User, error)
	GetUserFn         func(ctx context.Context, id string) (*domain.User, error)
	ListDoctorsFn     func(ctx context.Context) ([]domain.User, error)
	ListCaretakersFn  func(ctx context.Context) ([]domain.Caretaker, error)
	CreateCaretakerFn func(ctx context.Context, c domain.Caretaker) (*domain.Caretaker, error)
	SessionFn         func(ctx context.Context, req service.SessionRequest) (*domain.User, error)
}

var _ service.DirectoryService = (*MockDirectoryService)(nil)

// ListUsers implements service.DirectoryService.
func (m *MockDirectoryService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return []domain.User{}, nil
}

// GetUser implements service.DirectoryService.
func (m *MockDirectoryService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, service.ErrUserNotFound
}

// ListDoctors implements service.DirectoryService.
func (m *MockDirectoryService) ListDoctors(ctx context.Context) ([]domain.User, error) {
	if m.ListDoctorsFn != nil {
		return m.ListDoctorsFn(ctx)
	}
	return []domain.User{}, nil
}

// ListCaretakers implements service.DirectoryService.
func (m *MockDirectoryService) ListCaretakers(ctx context.Context) ([]domain.Caretaker, error) {
	if m.ListCaretakersFn != nil {
		return m.ListCaretakersFn(ctx)
	}
	return []domain.Caretaker{}, nil
}

// CreateCaretaker implements service.DirectoryService.
func (m *MockDirectoryService) CreateCaretaker(ctx context.Context, c domain.Caretaker) (*domain.Caretaker, error) {
	if m.CreateCaretakerFn != nil {
		return m.CreateCaretakerFn(ctx, c)
	}
	return nil, nil
}

// Session implements service.DirectoryService.
func (m *MockDirectoryService) Session(ctx context.Context, req service.SessionRequest) (*domain.User, error) {
	if m.SessionFn != nil {
		return m.SessionFn(ctx, req)
	}
	return nil, service.ErrUserNotFound
}

// MockPrescriptionService implements service.PrescriptionService for testing.
type MockPrescriptionService struct {
	ListPrescriptionsFn func(ctx context.Context) ([]service.Prescription, error)
}

var _ service.PrescriptionService = (*MockPrescriptionService)(nil)

// ListPrescriptions implements service.PrescriptionService.
func (m *MockPrescriptionService) ListPrescriptions(ctx context.Context) ([]service.Prescription, error) {
	if m.ListPrescriptionsFn != nil {
		return m.ListPrescriptionsFn(ctx)
	}
	return []service.Prescription{}, nil
}

// MockReportService implements service.ReportService for testing.
type MockReportService struct {
	AdherenceFn      func(ctx context.Context, patientID string) (*service.AdherenceReport, error)
	ShareAdherenceFn func(ctx context.Context, patientID, contactID string) (*service.ShareResult, error)
}

var _ service.ReportService = (*MockReportService)(nil)

// Adherence implements service.ReportService.
func (m *MockReportService) Adherence(ctx context.Context, patientID string) (*service.AdherenceReport, error) {
	if m.AdherenceFn != nil {
		return m.AdherenceFn(ctx, patientID)
	}
	return nil, service.ErrPatientNotFound
}

// ShareAdherence implements service.ReportService.
func (m *MockReportService) ShareAdherence(
	ctx context.Context,
	patientID, contactID string,
) (*service.ShareResult, error) {
	if m.ShareAdherenceFn != nil {
		return m.ShareAdherenceFn(ctx, patientID, contactID)
	}
	return nil, service.ErrPatientNotFound
}

// MockMaintenanceService implements service.MaintenanceService for testing.
type MockMaintenanceService struct {
	SeedFn           func(ctx context.Context) (*service.SeedResult, error)
	InitializeFn     func(ctx context.Context) (*service.InitResult, error)
	TestConnectionFn func(ctx context.Context) (*service.ConnectionStatus, error)
}

var _ service.MaintenanceService = (*MockMaintenanceService)(nil)

// Seed implements service.MaintenanceService.
func (m *MockMaintenanceService) Seed(ctx context.Context) (*service.SeedResult, error) {
	if m.SeedFn != nil {
		return m.SeedFn(ctx)
	}
	return &service.SeedResult{}, nil
}

// Initialize implements service.MaintenanceService.
func (m *MockMaintenanceService) Initialize(ctx context.Context) (*service.InitResult, error) {
	if m.InitializeFn != nil {
		return m.InitializeFn(ctx)
	}
	return &service.InitResult{Cleared: map[string]int64{}}, nil
}

// TestConnection implements service.MaintenanceService.
func (m *MockMaintenanceService) TestConnection(ctx context.Context) (*service.ConnectionStatus, error) {
	if m.TestConnectionFn != nil {
		return m.TestConnectionFn(ctx)
	}
	return &service.ConnectionStatus{Collections: []string{}}, nil
}

// MockAssistantService implements assistant.Service for testing.
type MockAssistantService struct {
	GetMedicationGuideFn func(
		ctx context.Context,
		in assistant.MedicationGuideInput,
	) (*assistant.MedicationGuideOutput, error)
	AskAssistantFn func(
		ctx context.Context,
		in assistant.MedicationAssistantInput,
	) (*assistant.MedicationAssistantOutput, error)
	ParsePrescriptionFn func(
		ctx context.Context,
		in assistant.PrescriptionParserInput,
	) (*assistant.PrescriptionParserOutput, error)
}

var _ assistant.Service = (*MockAssistantService)(nil)

// GetMedicationGuide implements assistant.Service.
func (m *MockAssistantService) GetMedicationGuide(
	ctx context.Context,
	in assistant.MedicationGuideInput,
) (*assistant.MedicationGuideOutput, error) {
	if m.GetMedicationGuideFn != nil {
		return m.GetMedicationGuideFn(ctx, in)
	}
	return &assistant.MedicationGuideOutput{MedicationName: in.MedicationName, Disclaimer: assistant.GuideDisclaimer}, nil
}

// AskAssistant implements assistant.Service.
func (m *MockAssistantService) AskAssistant(
	ctx context.Context,
	in assistant.MedicationAssistantInput,
) (*assistant.MedicationAssistantOutput, error) {
	if m.AskAssistantFn != nil {
		return m.AskAssistantFn(ctx, in)
	}
	return &assistant.MedicationAssistantOutput{Disclaimer: assistant.AssistantDisclaimer}, nil
}

// ParsePrescription implements assistant.Service.
func (m *MockAssistantService) ParsePrescription(
	ctx context.Context,
	in assistant.PrescriptionParserInput,
) (*assistant.PrescriptionParserOutput, error) {
	if m.ParsePrescriptionFn != nil {
		return m.ParsePrescriptionFn(ctx, in)
	}
	return &assistant.PrescriptionParserOutput{Medications: []assistant.ParsedMedication{}}, nil
}
