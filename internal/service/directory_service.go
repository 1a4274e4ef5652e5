package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/store"
)

// CaretakerIDPrefix starts every generated caretaker ID.
const CaretakerIDPrefix = "user-caretaker-"

// SessionRequest selects the user to act as. UserID wins over Role; with
// only a role the first user holding it is chosen.
type SessionRequest struct {
	UserID string `json:"userId,omitempty"`
	Role   string `json:"role,omitempty"`
}

// DirectoryService reads and writes the people known to the application.
type DirectoryService interface {
	// ListUsers returns every user account.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// GetUser returns one user or ErrUserNotFound.
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// ListDoctors returns the users whose role is doctor.
	ListDoctors(ctx context.Context) ([]domain.User, error)

	// ListCaretakers returns every caretaker record.
	ListCaretakers(ctx context.Context) ([]domain.Caretaker, error)

	// CreateCaretaker stores a caretaker and mirrors it into users.
	CreateCaretaker(ctx context.Context, c domain.Caretaker) (*domain.Caretaker, error)

	// Session resolves a simulated login to a user.
	Session(ctx context.Context, req SessionRequest) (*domain.User, error)
}

// DirectoryServiceImpl implements DirectoryService.
type DirectoryServiceImpl struct {
	repos  *Repositories
	logger *slog.Logger
	opts   options
}

var _ DirectoryService = (*DirectoryServiceImpl)(nil)

const directoryService = "directory"

// NewDirectoryService creates a DirectoryService.
func NewDirectoryService(repos *Repositories, logger *slog.Logger, opts ...Option) (*DirectoryServiceImpl, error) {
	if err := checkRepositories(directoryService, repos); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, nilDependency(directoryService, "logger")
	}

	return &DirectoryServiceImpl{
		repos:  repos,
		logger: logger.With(slog.String("component", "directory_service")),
		opts:   applyOptions(opts),
	}, nil
}

// ListUsers implements DirectoryService.ListUsers.
func (s *DirectoryServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repos.Users.Find(ctx, nil)
	if err != nil {
		return nil, wrapError(directoryService, "list_users", err, nil)
	}
	return users, nil
}

// GetUser implements DirectoryService.GetUser.
func (s *DirectoryServiceImpl) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repos.Users.Get(ctx, id)
	if err != nil {
		return nil, wrapError(directoryService, "get_user", err, ErrUserNotFound)
	}
	return u, nil
}

// ListDoctors implements DirectoryService.ListDoctors.
func (s *DirectoryServiceImpl) ListDoctors(ctx context.Context) ([]domain.User, error) {
	doctors, err := s.repos.Users.Find(ctx, store.Filter{"role": string(domain.RoleDoctor)})
	if err != nil {
		return nil, wrapError(directoryService, "list_doctors", err, nil)
	}
	return doctors, nil
}

// ListCaretakers implements DirectoryService.ListCaretakers.
func (s *DirectoryServiceImpl) ListCaretakers(ctx context.Context) ([]domain.Caretaker, error) {
	caretakers, err := s.repos.Caretakers.Find(ctx, nil)
	if err != nil {
		return nil, wrapError(directoryService, "list_caretakers", err, nil)
	}
	return caretakers, nil
}

// CreateCaretaker implements DirectoryService.CreateCaretaker.
func (s *DirectoryServiceImpl) CreateCaretaker(ctx context.Context, c domain.Caretaker) (*domain.Caretaker, error) {
	now := s.opts.now().UTC()
	id := fmt.Sprintf("%s%d", CaretakerIDPrefix, now.UnixMilli())

	created, err := domain.NewCaretaker(c, id, now)
	if err != nil {
		return nil, NewServiceError(directoryService, "create_caretaker", err)
	}
	if err := s.repos.Caretakers.Save(ctx, created); err != nil {
		return nil, wrapError(directoryService, "create_caretaker", err, nil)
	}
	user := created.User()
	if err := s.repos.Users.Save(ctx, &user); err != nil {
		return nil, wrapError(directoryService, "create_caretaker", err, nil)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("caretaker created",
		slog.String("caretaker_id", created.ID),
		slog.String("patient_id", created.PatientID))
	return created, nil
}

// Session implements DirectoryService.Session.
func (s *DirectoryServiceImpl) Session(ctx context.Context, req SessionRequest) (*domain.User, error) {
	if id := strings.TrimSpace(req.UserID); id != "" {
		return s.GetUser(ctx, id)
	}
	if strings.TrimSpace(req.Role) == "" {
		return nil, NewServiceError(directoryService, "session",
			fmt.Errorf("%w: userId or role is required", ErrInvalidInput))
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return nil, NewServiceError(directoryService, "session", err)
	}
	u, err := s.repos.Users.FindOne(ctx, store.Filter{"role": string(role)})
	if err != nil {
		return nil, wrapError(directoryService, "session", err, ErrUserNotFound)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("session started",
		slog.String("user_id", u.ID),
		slog.String("role", string(u.Role)))
	return u, nil
}
