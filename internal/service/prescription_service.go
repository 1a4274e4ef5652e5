package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/domain"
)

// Prescription is a medication together with the patient taking it.
type Prescription struct {
	domain.Medication
	PatientID   string `json:"patientId"`
	PatientName string `json:"patientName"`
	DoctorID    string `json:"doctorId,omitempty"`
}

// PrescriptionService lists medications across patients.
type PrescriptionService interface {
	// ListPrescriptions flattens every patient's medications.
	ListPrescriptions(ctx context.Context) ([]Prescription, error)
}

// PrescriptionServiceImpl implements PrescriptionService.
type PrescriptionServiceImpl struct {
	repos  *Repositories
	logger *slog.Logger
}

var _ PrescriptionService = (*PrescriptionServiceImpl)(nil)

const prescriptionService = "prescription"

// NewPrescriptionService creates a PrescriptionService.
func NewPrescriptionService(repos *Repositories, logger *slog.Logger) (*PrescriptionServiceImpl, error) {
	if err := checkRepositories(prescriptionService, repos); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, nilDependency(prescriptionService, "logger")
	}

	return &PrescriptionServiceImpl{
		repos:  repos,
		logger: logger.With(slog.String("component", "prescription_service")),
	}, nil
}

// ListPrescriptions implements PrescriptionService.ListPrescriptions.
func (s *PrescriptionServiceImpl) ListPrescriptions(ctx context.Context) ([]Prescription, error) {
	patients, err := s.repos.Patients.Find(ctx, nil)
	if err != nil {
		return nil, wrapError(prescriptionService, "list", err, nil)
	}

	prescriptions := make([]Prescription, 0)
	for _, p := range patients {
		for _, m := range p.Medications {
			prescriptions = append(prescriptions, Prescription{
				Medication:  m,
				PatientID:   p.ID,
				PatientName: p.Name,
				DoctorID:    p.DoctorID,
			})
		}
	}
	return prescriptions, nil
}
