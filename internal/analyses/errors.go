package analyses

import (
	"errors"
	"net/http"

	"github.com/halalcheck/halalcheck/pkg/handlers"
)

var (
	ErrNotFound       = errors.New("analysis not found")
	ErrDuplicate      = errors.New("analysis already exists")
	ErrEmptyText      = errors.New("ingredient text is empty")
	ErrTextTooLong    = errors.New("ingredient text exceeds maximum length")
	ErrBatchTooLarge  = errors.New("batch exceeds maximum size")
	ErrReportNotFound = errors.New("report has not been exported")
)

// MapHTTPStatus maps analysis errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyText),
		errors.Is(err, ErrTextTooLong),
		errors.Is(err, ErrBatchTooLarge),
		errors.Is(err, handlers.ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
