package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"campusrecords/src/domain"
)

type ErrorResponse struct {
	Error      string             `json:"error"`
	Type       string             `json:"type,omitempty"`
	ID         *int64             `json:"id,omitempty"`
	Message    string             `json:"message"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// MapErrorToResponse traduz o erro de domínio no status e corpo da resposta.
func MapErrorToResponse(err error) (int, ErrorResponse) {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &notFound):
		id := notFound.ID
		return http.StatusNotFound, ErrorResponse{
			Error:   "EntityNotFoundException",
			Type:    notFound.Type,
			ID:      &id,
			Message: notFound.Error(),
		}
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{
			Error:      "ValidationFailure",
			Message:    validation.Error(),
			Violations: validation.Violations,
		}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Error: "Forbidden", Message: err.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: "Conflict", Message: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "InternalServerError",
			Message: domain.ErrUnavailableServer.Error(),
		}
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, response := MapErrorToResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, logger, status, response)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to write JSON response", "status", status, "error", err)
	}
}
