package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"nightout/internal/domain"
)

// WriteServiceError maps a service error to a status and error code. Unknown errors are
// logged and reported as 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNoValidEmails), errors.Is(err, domain.ErrInvalidInput):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrEventFull):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeEventFull, domain.ErrEventFull.Error())
	case errors.Is(err, domain.ErrInviteExpired):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeInviteExpired, domain.ErrInviteExpired.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		WriteJSONError(w, http.StatusForbidden, ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteJSONError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrDuplicateEmail):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, "email already registered")
	case errors.Is(err, domain.ErrAlreadyJoined):
		WriteJSONError(w, http.StatusConflict, ErrCodeConflict, domain.ErrAlreadyJoined.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
