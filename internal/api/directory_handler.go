package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/domain"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/service"
)

// DirectoryHandler serves users, doctors, caretakers and the simulated
// session.
type DirectoryHandler struct {
	directory service.DirectoryService
	logger    *slog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directory service.DirectoryService, logger *slog.Logger) *DirectoryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DirectoryHandler")
	}
	return &DirectoryHandler{
		directory: directory,
		logger:    logger.With(slog.String("component", "directory_handler")),
	}
}

// ListUsers handles GET /api/users
func (h *DirectoryHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch users")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// GetUser handles GET /api/users/{id}
func (h *DirectoryHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	params, ok := pathParams(w, r, "id")
	if !ok {
		return
	}

	user, err := h.directory.GetUser(r.Context(), params[0])
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch user")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// ListDoctors handles GET /api/doctors
func (h *DirectoryHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.directory.ListDoctors(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch doctors")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, doctors)
}

// ListCaretakers handles GET /api/caretakers
func (h *DirectoryHandler) ListCaretakers(w http.ResponseWriter, r *http.Request) {
	caretakers, err := h.directory.ListCaretakers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch caretakers")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, caretakers)
}

// CreateCaretaker handles POST /api/caretakers
func (h *DirectoryHandler) CreateCaretaker(w http.ResponseWriter, r *http.Request) {
	var req CreateCaretakerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	caretaker, err := h.directory.CreateCaretaker(r.Context(), domain.Caretaker{
		ID:           req.ID,
		Name:         req.Name,
		Email:        req.Email,
		Avatar:       req.Avatar,
		PatientID:    req.PatientID,
		Relationship: req.Relationship,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create caretaker")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, CaretakerResponse{
		CreatedResponse: CreatedResponse{Success: true, ID: caretaker.ID},
		Caretaker:       caretaker,
	})
}

// Session handles POST /api/session. It is a simulated login with no
// credentials: the caller names a user or a role.
func (h *DirectoryHandler) Session(w http.ResponseWriter, r *http.Request) {
	var req service.SessionRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	user, err := h.directory.Session(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("session resolved",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)))
	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{Success: true, User: user})
}
