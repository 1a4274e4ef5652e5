package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/notify"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
)

// AdherenceReport is a patient's adherence summary and its shareable text.
type AdherenceReport struct {
	PatientID   string                  `json:"patientId"`
	PatientName string                  `json:"patientName"`
	Summary     domain.AdherenceSummary `json:"summary"`
	Text        string                  `json:"text"`
}

// ShareResult describes a report delivered to an emergency contact.
type ShareResult struct {
	Contact domain.EmergencyContact `json:"contact"`
	Receipt notify.Receipt          `json:"receipt"`
	Text    string                  `json:"text"`
}

// ReportService computes adherence and shares it with emergency contacts.
type ReportService interface {
	// Adherence computes the patient's current adherence report.
	Adherence(ctx context.Context, patientID string) (*AdherenceReport, error)

	// ShareAdherence sends the report to one of the patient's emergency
	// contacts. An empty contactID selects the first contact.
	ShareAdherence(ctx context.Context, patientID, contactID string) (*ShareResult, error)
}

// ReportServiceImpl implements ReportService.
type ReportServiceImpl struct {
	repos  *Repositories
	sender notify.Sender
	logger *slog.Logger
	opts   options
}

var _ ReportService = (*ReportServiceImpl)(nil)

const reportService = "report"

// NewReportService creates a ReportService.
func NewReportService(
	repos *Repositories,
	sender notify.Sender,
	logger *slog.Logger,
	opts ...Option,
) (*ReportServiceImpl, error) {
	if err := checkRepositories(reportService, repos); err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, nilDependency(reportService, "sender")
	}
	if logger == nil {
		return nil, nilDependency(reportService, "logger")
	}

	return &ReportServiceImpl{
		repos:  repos,
		sender: sender,
		logger: logger.With(slog.String("component", "report_service")),
		opts:   applyOptions(opts),
	}, nil
}

// Adherence implements ReportService.Adherence.
func (s *ReportServiceImpl) Adherence(ctx context.Context, patientID string) (*AdherenceReport, error) {
	p, err := s.repos.Patients.Get(ctx, patientID)
	if err != nil {
		return nil, wrapError(reportService, "adherence", err, ErrPatientNotFound)
	}
	return s.report(p), nil
}

func (s *ReportServiceImpl) report(p *domain.Patient) *AdherenceReport {
	summary := domain.Adherence(p.Medications, s.opts.now())
	return &AdherenceReport{
		PatientID:   p.ID,
		PatientName: p.Name,
		Summary:     summary,
		Text:        domain.ReportText(p.Name, summary),
	}
}

// ShareAdherence implements ReportService.ShareAdherence.
func (s *ReportServiceImpl) ShareAdherence(
	ctx context.Context,
	patientID, contactID string,
) (*ShareResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := s.repos.Patients.Get(ctx, patientID)
	if err != nil {
		return nil, wrapError(reportService, "share", err, ErrPatientNotFound)
	}

	var contact *domain.EmergencyContact
	switch {
	case contactID != "":
		contact, err = p.Contact(contactID)
		if err != nil {
			return nil, NewServiceError(reportService, "share", err)
		}
	case len(p.EmergencyContacts) > 0:
		contact = &p.EmergencyContacts[0]
	default:
		return nil, NewServiceError(reportService, "share",
			fmt.Errorf("%w: patient %s has no emergency contacts", domain.ErrContactNotFound, patientID))
	}

	report := s.report(p)
	receipt, err := s.sender.Send(ctx, contact.Phone, report.Text)
	if err != nil {
		log.Warn("adherence report not delivered",
			slog.String("patient_id", patientID),
			slog.String("contact_id", contact.ID),
			slog.String("error", err.Error()))
		return nil, NewServiceError(reportService, "share", fmt.Errorf("%w: %w", ErrNotificationFailed, err))
	}

	log.Info("adherence report shared",
		slog.String("patient_id", patientID),
		slog.String("contact_id", contact.ID),
		slog.String("channel", receipt.Channel))
	return &ShareResult{Contact: *contact, Receipt: *receipt, Text: report.Text}, nil
}
