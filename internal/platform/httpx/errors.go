package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the domain layer. Repositories and services return
// these (possibly wrapped); RespondError maps them to statuses at the HTTP
// boundary.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("user already exists")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token incorrect or expired")
	ErrDelivery           = errors.New("could not deliver email")
)

// RespondError maps domain errors to HTTP error responses.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrTokenInvalid):
		Error(w, http.StatusUnauthorized, ErrTokenInvalid.Error())
	case errors.Is(err, ErrUnauthorized):
		Error(w, http.StatusUnauthorized, ErrUnauthorized.Error())
	case errors.Is(err, ErrForbidden):
		Error(w, http.StatusForbidden, ErrForbidden.Error())
	case errors.Is(err, ErrNotFound):
		Error(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrDuplicate):
		Error(w, http.StatusConflict, ErrDuplicate.Error())
	case errors.Is(err, ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrDelivery):
		Error(w, http.StatusBadGateway, ErrDelivery.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
