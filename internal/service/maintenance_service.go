package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// SeedResult counts the documents written by a seed or initialization.
type SeedResult struct {
	Users        int `json:"users"`
	Doctors      int `json:"doctors"`
	Caretakers   int `json:"caretakers"`
	Patients     int `json:"patients"`
	Appointments int `json:"appointments"`
}

// InitResult reports an initialization: what was cleared and what was written.
type InitResult struct {
	Cleared map[string]int64 `json:"cleared"`
	Seeded  SeedResult       `json:"seeded"`
}

// ConnectionStatus describes a reachable database.
type ConnectionStatus struct {
	Database    string   `json:"database"`
	Collections []string `json:"collections"`
}

// MaintenanceService loads demo data and checks the database.
type MaintenanceService interface {
	// Seed upserts the demo fixtures without removing anything.
	Seed(ctx context.Context) (*SeedResult, error)

	// Initialize clears the patient, doctor, caretaker and appointment
	// collections and loads the demo fixtures.
	Initialize(ctx context.Context) (*InitResult, error)

	// TestConnection pings the database and lists its collections.
	TestConnection(ctx context.Context) (*ConnectionStatus, error)
}

// MaintenanceServiceImpl implements MaintenanceService.
type MaintenanceServiceImpl struct {
	repos    *Repositories
	database string
	logger   *slog.Logger
	opts     options
}

var _ MaintenanceService = (*MaintenanceServiceImpl)(nil)

const maintenanceService = "maintenance"

// clearedOnInit are the collections Initialize empties. Users are upserted
// over rather than cleared.
var clearedOnInit = []store.Collection{
	store.CollectionPatients,
	store.CollectionDoctors,
	store.CollectionCaretakers,
	store.CollectionAppointments,
}

// NewMaintenanceService creates a MaintenanceService. database names the
// backing database in connection reports.
func NewMaintenanceService(
	repos *Repositories,
	database string,
	logger *slog.Logger,
	opts ...Option,
) (*MaintenanceServiceImpl, error) {
	if err := checkRepositories(maintenanceService, repos); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, nilDependency(maintenanceService, "logger")
	}

	return &MaintenanceServiceImpl{
		repos:    repos,
		database: database,
		logger:   logger.With(slog.String("component", "maintenance_service")),
		opts:     applyOptions(opts),
	}, nil
}

// Seed implements MaintenanceService.Seed.
func (s *MaintenanceServiceImpl) Seed(ctx context.Context) (*SeedResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fixtures, err := DefaultFixtures(s.opts.now())
	if err != nil {
		return nil, NewServiceError(maintenanceService, "seed", err)
	}

	result, err := s.load(ctx, fixtures)
	if err != nil {
		return nil, wrapError(maintenanceService, "seed", err, nil)
	}

	log.Info("demo data seeded",
		slog.Int("users", result.Users),
		slog.Int("patients", result.Patients),
		slog.Int("appointments", result.Appointments))
	return result, nil
}

// Initialize implements MaintenanceService.Initialize.
func (s *MaintenanceServiceImpl) Initialize(ctx context.Context) (*InitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	fixtures, err := DefaultFixtures(s.opts.now())
	if err != nil {
		return nil, NewServiceError(maintenanceService, "initialize", err)
	}

	cleared := make(map[string]int64, len(clearedOnInit))
	for _, coll := range clearedOnInit {
		n, err := s.repos.Store.DeleteAll(ctx, coll)
		if err != nil {
			return nil, wrapError(maintenanceService, "initialize", err, nil)
		}
		cleared[string(coll)] = n
		log.Debug("collection cleared", slog.String("collection", string(coll)), slog.Int64("deleted", n))
	}

	seeded, err := s.load(ctx, fixtures)
	if err != nil {
		return nil, wrapError(maintenanceService, "initialize", err, nil)
	}

	log.Info("database initialized",
		slog.Int("patients", seeded.Patients),
		slog.Int("doctors", seeded.Doctors),
		slog.Int("caretakers", seeded.Caretakers),
		slog.Int("appointments", seeded.Appointments))
	return &InitResult{Cleared: cleared, Seeded: *seeded}, nil
}

// TestConnection implements MaintenanceService.TestConnection.
func (s *MaintenanceServiceImpl) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	if err := s.repos.Store.Ping(ctx); err != nil {
		return nil, wrapError(maintenanceService, "test_connection", err, nil)
	}

	collections, err := s.repos.Store.Collections(ctx)
	if err != nil {
		return nil, wrapError(maintenanceService, "test_connection", err, nil)
	}
	if collections == nil {
		collections = []string{}
	}

	return &ConnectionStatus{Database: s.database, Collections: collections}, nil
}

func (s *MaintenanceServiceImpl) load(ctx context.Context, f *Fixtures) (*SeedResult, error) {
	result := &SeedResult{}

	for _, u := range f.Users() {
		if err := s.repos.Users.Save(ctx, &u); err != nil {
			return nil, err
		}
		result.Users++
	}
	for i := range f.Doctors {
		if err := s.repos.Doctors.Save(ctx, &f.Doctors[i]); err != nil {
			return nil, err
		}
		result.Doctors++
	}
	for i := range f.Caretakers {
		if err := s.repos.Caretakers.Save(ctx, &f.Caretakers[i]); err != nil {
			return nil, err
		}
		result.Caretakers++
	}
	for i := range f.Patients {
		if err := s.repos.Patients.Save(ctx, &f.Patients[i]); err != nil {
			return nil, err
		}
		result.Patients++
	}
	for i := range f.Appointments {
		if err := s.repos.Appointments.Save(ctx, &f.Appointments[i]); err != nil {
			return nil, err
		}
		result.Appointments++
	}

	return result, nil
}
