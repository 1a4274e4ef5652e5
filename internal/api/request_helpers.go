package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/pocket-doctor/internal/api/shared"
	"github.com/phrazzld/pocket-doctor/internal/platform/logger"
	"github.com/phrazzld/pocket-doctor/internal/service"
)

// pathParam returns a non-empty URL path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", service.ErrInvalidInput, name)
	}
	return value, nil
}

// pathParams extracts several path parameters, writing a 400 response and
// returning false if any is missing.
func pathParams(w http.ResponseWriter, r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, 0, len(names))
	for _, name := range names {
		v, err := pathParam(r, name)
		if err != nil {
			logger.FromContext(r.Context()).Warn("missing path parameter", slog.String("param_name", name))
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Missing "+name, err)
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// decodeAndValidate decodes the JSON body into v and validates it. On
// failure it writes a 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	return validateBody(w, r, v)
}

// decodeBody decodes the JSON body into v without struct validation. On
// failure it writes a 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	return true
}

// decodeOptional is decodeAndValidate for endpoints whose body may be
// omitted entirely.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := shared.DecodeJSON(w, r, v)
	if err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	return validateBody(w, r, v)
}

func validateBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
