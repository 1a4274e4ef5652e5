package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// AppointmentFilter narrows an appointment listing. DoctorID takes
// precedence over PatientID when both are set.
type AppointmentFilter struct {
	PatientID string
	DoctorID  string
}

func (f AppointmentFilter) storeFilter() store.Filter {
	switch {
	case f.DoctorID != "":
		return store.Filter{"doctorId": f.DoctorID}
	case f.PatientID != "":
		return store.Filter{"patientId": f.PatientID}
	default:
		return nil
	}
}

// AppointmentService manages appointments.
type AppointmentService interface {
	// ListAppointments returns the appointments matching filter.
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]domain.Appointment, error)

	// CreateAppointment stores a new appointment under a generated ID.
	// The status defaults to scheduled.
	CreateAppointment(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)

	// UpdateStatus changes an appointment's status.
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error)

	// DeleteAppointment removes an appointment.
	DeleteAppointment(ctx context.Context, id string) error
}

// AppointmentServiceImpl implements AppointmentService.
type AppointmentServiceImpl struct {
	repos  *Repositories
	logger *slog.Logger
	opts   options
}

var _ AppointmentService = (*AppointmentServiceImpl)(nil)

const appointmentService = "appointment"

// NewAppointmentService creates an AppointmentService.
func NewAppointmentService(repos *Repositories, logger *slog.Logger, opts ...Option) (*AppointmentServiceImpl, error) {
	if err := checkRepositories(appointmentService, repos); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, nilDependency(appointmentService, "logger")
	}

	return &AppointmentServiceImpl{
		repos:  repos,
		logger: logger.With(slog.String("component", "appointment_service")),
		opts:   applyOptions(opts),
	}, nil
}

// ListAppointments implements AppointmentService.ListAppointments.
func (s *AppointmentServiceImpl) ListAppointments(
	ctx context.Context,
	filter AppointmentFilter,
) ([]domain.Appointment, error) {
	appointments, err := s.repos.Appointments.Find(ctx, filter.storeFilter())
	if err != nil {
		return nil, wrapError(appointmentService, "list", err, nil)
	}
	return appointments, nil
}

// CreateAppointment implements AppointmentService.CreateAppointment.
func (s *AppointmentServiceImpl) CreateAppointment(
	ctx context.Context,
	a domain.Appointment,
) (*domain.Appointment, error) {
	created, err := domain.NewAppointment(a, s.opts.newID())
	if err != nil {
		return nil, NewServiceError(appointmentService, "create", err)
	}
	if err := s.repos.Appointments.Save(ctx, created); err != nil {
		return nil, wrapError(appointmentService, "create", err, nil)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("appointment created",
		slog.String("appointment_id", created.ID),
		slog.String("patient_id", created.PatientID),
		slog.String("doctor_id", created.DoctorID),
		slog.String("date", created.Date))
	return created, nil
}

// UpdateStatus implements AppointmentService.UpdateStatus.
func (s *AppointmentServiceImpl) UpdateStatus(
	ctx context.Context,
	id string,
	status domain.AppointmentStatus,
) (*domain.Appointment, error) {
	a, err := s.repos.Appointments.Get(ctx, id)
	if err != nil {
		return nil, wrapError(appointmentService, "update_status", err, ErrAppointmentNotFound)
	}
	if err := a.SetStatus(status); err != nil {
		return nil, NewServiceError(appointmentService, "update_status", err)
	}
	if err := s.repos.Appointments.Save(ctx, a); err != nil {
		return nil, wrapError(appointmentService, "update_status", err, nil)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("appointment status updated",
		slog.String("appointment_id", id),
		slog.String("status", string(status)))
	return a, nil
}

// DeleteAppointment implements AppointmentService.DeleteAppointment.
func (s *AppointmentServiceImpl) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.repos.Appointments.Delete(ctx, id); err != nil {
		return wrapError(appointmentService, "delete", err, ErrAppointmentNotFound)
	}
	return nil
}
