package ingredients

import (
	"errors"
	"net/http"

	"github.com/halalcheck/halalcheck/pkg/handlers"
)

var (
	ErrNotFound         = errors.New("ingredient not found")
	ErrDuplicate        = errors.New("ingredient name already exists")
	ErrNoMatch          = errors.New("no reference ingredient matches")
	ErrInvalidStatus    = errors.New("status must be HALAL, HARAM, MASHBOOH, or UNCERTAIN")
	ErrInvalidRiskLevel = errors.New("risk_level must be LOW, MEDIUM, or HIGH")
	ErrInvalidENumber   = errors.New("e_numbers entries must look like E471 or E160a")
)

// MapHTTPStatus maps ingredient domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidRiskLevel),
		errors.Is(err, ErrInvalidENumber),
		errors.Is(err, handlers.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
