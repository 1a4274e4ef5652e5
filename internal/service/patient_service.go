package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// DoseInput records the outcome of one scheduled dose.
type DoseInput struct {
	Scheduled string            `json:"scheduled"`
	Status    domain.DoseStatus `json:"status"`
}

// ContactInput describes a new emergency contact.
type ContactInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PatientService manages patient records and everything nested in them.
type PatientService interface {
	// ListPatients returns every patient.
	ListPatients(ctx context.Context) ([]domain.Patient, error)

	// GetPatient returns one patient or ErrPatientNotFound.
	GetPatient(ctx context.Context, id string) (*domain.Patient, error)

	// CreatePatient registers a patient, mirrors it into the users
	// collection and links it to its caretaker and doctor.
	CreatePatient(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error)

	// UpdateMedicalHistory replaces allergies and chronic conditions.
	UpdateMedicalHistory(ctx context.Context, id string, h domain.MedicalHistory) (*domain.Patient, error)

	// AddMedication adds a medication with one pending dose per timing.
	AddMedication(ctx context.Context, id string, in domain.MedicationInput) (*domain.Medication, error)

	// RemoveMedication deletes a medication.
	RemoveMedication(ctx context.Context, id, medicationID string) error

	// RecordDose marks a pending dose as taken or skipped.
	RecordDose(ctx context.Context, id, medicationID string, in DoseInput) (*domain.Medication, error)

	// AddContact adds an emergency contact.
	AddContact(ctx context.Context, id string, in ContactInput) (*domain.EmergencyContact, error)

	// RemoveContact deletes an emergency contact.
	RemoveContact(ctx context.Context, id, contactID string) error
}

// PatientServiceImpl implements PatientService.
type PatientServiceImpl struct {
	repos  *Repositories
	logger *slog.Logger
	opts   options
}

var _ PatientService = (*PatientServiceImpl)(nil)

const patientService = "patient"

// NewPatientService creates a PatientService.
// It returns an error if any of the required dependencies are nil.
func NewPatientService(repos *Repositories, logger *slog.Logger, opts ...Option) (*PatientServiceImpl, error) {
	if err := checkRepositories(patientService, repos); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, nilDependency(patientService, "logger")
	}

	return &PatientServiceImpl{
		repos:  repos,
		logger: logger.With(slog.String("component", "patient_service")),
		opts:   applyOptions(opts),
	}, nil
}

// ListPatients implements PatientService.ListPatients.
func (s *PatientServiceImpl) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	patients, err := s.repos.Patients.Find(ctx, nil)
	if err != nil {
		return nil, wrapError(patientService, "list", err, nil)
	}
	return patients, nil
}

// GetPatient implements PatientService.GetPatient.
func (s *PatientServiceImpl) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	p, err := s.repos.Patients.Get(ctx, id)
	if err != nil {
		return nil, wrapError(patientService, "get", err, ErrPatientNotFound)
	}
	return p, nil
}

// CreatePatient implements PatientService.CreatePatient.
func (s *PatientServiceImpl) CreatePatient(ctx context.Context, in domain.NewPatientInput) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := domain.NewPatient(in, s.opts.now())
	if err != nil {
		return nil, NewServiceError(patientService, "create", err)
	}

	if err := s.repos.Patients.Save(ctx, p); err != nil {
		return nil, wrapError(patientService, "create", err, nil)
	}
	user := p.User()
	if err := s.repos.Users.Save(ctx, &user); err != nil {
		return nil, wrapError(patientService, "create", err, nil)
	}

	if p.CaretakerID != "" {
		if err := s.linkCaretaker(ctx, p.CaretakerID, p.ID); err != nil {
			return nil, wrapError(patientService, "create", err, nil)
		}
	}
	if p.DoctorID != "" {
		if err := s.linkDoctor(ctx, p.DoctorID, p.ID); err != nil {
			return nil, wrapError(patientService, "create", err, nil)
		}
	}

	log.Info("patient created",
		slog.String("patient_id", p.ID),
		slog.String("doctor_id", p.DoctorID),
		slog.Bool("has_caretaker", p.CaretakerID != ""))
	return p, nil
}

// linkCaretaker points the caretaker's user record (and caretaker document,
// when one exists) at the patient. A caretaker that does not exist yet is
// not an error.
func (s *PatientServiceImpl) linkCaretaker(ctx context.Context, caretakerID, patientID string) error {
	u, err := s.repos.Users.Get(ctx, caretakerID)
	switch {
	case store.IsNotFoundError(err):
	case err != nil:
		return err
	default:
		u.PatientID = patientID
		if err := s.repos.Users.Save(ctx, u); err != nil {
			return err
		}
	}

	c, err := s.repos.Caretakers.Get(ctx, caretakerID)
	switch {
	case store.IsNotFoundError(err):
		return nil
	case err != nil:
		return err
	}
	c.PatientID = patientID
	c.UpdatedAt = s.opts.now().UTC()
	return s.repos.Caretakers.Save(ctx, c)
}

// linkDoctor adds the patient to the doctor's patient list in both the
// doctors and users collections.
func (s *PatientServiceImpl) linkDoctor(ctx context.Context, doctorID, patientID string) error {
	d, err := s.repos.Doctors.Get(ctx, doctorID)
	switch {
	case store.IsNotFoundError(err):
	case err != nil:
		return err
	default:
		if !slices.Contains(d.PatientIDs, patientID) {
			d.PatientIDs = append(d.PatientIDs, patientID)
			d.UpdatedAt = s.opts.now().UTC()
			if err := s.repos.Doctors.Save(ctx, d); err != nil {
				return err
			}
		}
	}

	u, err := s.repos.Users.Get(ctx, doctorID)
	switch {
	case store.IsNotFoundError(err):
		return nil
	case err != nil:
		return err
	}
	if slices.Contains(u.PatientIDs, patientID) {
		return nil
	}
	u.PatientIDs = append(u.PatientIDs, patientID)
	return s.repos.Users.Save(ctx, u)
}

// UpdateMedicalHistory implements PatientService.UpdateMedicalHistory.
func (s *PatientServiceImpl) UpdateMedicalHistory(
	ctx context.Context,
	id string,
	h domain.MedicalHistory,
) (*domain.Patient, error) {
	var updated *domain.Patient
	err := s.update(ctx, id, "update_medical_history", func(p *domain.Patient) error {
		p.SetMedicalHistory(h, s.opts.now())
		updated = p
		return nil
	})
	return updated, err
}

// AddMedication implements PatientService.AddMedication.
func (s *PatientServiceImpl) AddMedication(
	ctx context.Context,
	id string,
	in domain.MedicationInput,
) (*domain.Medication, error) {
	now := s.opts.now()
	med, err := domain.NewMedication(s.opts.newID(), in, now)
	if err != nil {
		return nil, NewServiceError(patientService, "add_medication", err)
	}

	err = s.update(ctx, id, "add_medication", func(p *domain.Patient) error {
		p.AddMedication(*med, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("medication added",
		slog.String("patient_id", id),
		slog.String("medication_id", med.ID),
		slog.Int("timings", len(med.Timings)))
	return med, nil
}

// RemoveMedication implements PatientService.RemoveMedication.
func (s *PatientServiceImpl) RemoveMedication(ctx context.Context, id, medicationID string) error {
	return s.update(ctx, id, "remove_medication", func(p *domain.Patient) error {
		return p.RemoveMedication(medicationID, s.opts.now())
	})
}

// RecordDose implements PatientService.RecordDose.
func (s *PatientServiceImpl) RecordDose(
	ctx context.Context,
	id, medicationID string,
	in DoseInput,
) (*domain.Medication, error) {
	var med *domain.Medication
	err := s.update(ctx, id, "record_dose", func(p *domain.Patient) error {
		if err := p.RecordDose(medicationID, in.Scheduled, in.Status, s.opts.now()); err != nil {
			return err
		}
		m, err := p.Medication(medicationID)
		if err != nil {
			return err
		}
		copied := *m
		med = &copied
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("dose recorded",
		slog.String("patient_id", id),
		slog.String("medication_id", medicationID),
		slog.String("scheduled", in.Scheduled),
		slog.String("status", string(in.Status)))
	return med, nil
}

// AddContact implements PatientService.AddContact.
func (s *PatientServiceImpl) AddContact(
	ctx context.Context,
	id string,
	in ContactInput,
) (*domain.EmergencyContact, error) {
	c, err := domain.NewEmergencyContact(s.opts.newID(), in.Name, in.Phone)
	if err != nil {
		return nil, NewServiceError(patientService, "add_contact", err)
	}

	err = s.update(ctx, id, "add_contact", func(p *domain.Patient) error {
		p.AddContact(*c, s.opts.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveContact implements PatientService.RemoveContact.
func (s *PatientServiceImpl) RemoveContact(ctx context.Context, id, contactID string) error {
	return s.update(ctx, id, "remove_contact", func(p *domain.Patient) error {
		return p.RemoveContact(contactID, s.opts.now())
	})
}

// update loads a patient, applies fn and writes the whole document back.
// Concurrent updates to the same patient are last-write-wins.
func (s *PatientServiceImpl) update(
	ctx context.Context,
	id, op string,
	fn func(p *domain.Patient) error,
) error {
	p, err := s.repos.Patients.Get(ctx, id)
	if err != nil {
		return wrapError(patientService, op, err, ErrPatientNotFound)
	}
	if err := fn(p); err != nil {
		return NewServiceError(patientService, op, err)
	}
	if err := s.repos.Patients.Save(ctx, p); err != nil {
		return wrapError(patientService, op, err, nil)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("patient updated",
		slog.String("patient_id", id),
		slog.String("operation", op))
	return nil
}
