package audit

import (
	"errors"
	"net/http"

	"github.com/halalcheck/halalcheck/pkg/handlers"
)

var (
	ErrNotFound  = errors.New("audit entry not found")
	ErrDuplicate = errors.New("audit entry already exists")
)

func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, handlers.ErrInvalidRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
