package concierge

import (
	"errors"
	"net/http"

	"github.com/candidate-concierge/concierge/internal/interactions"
)

// ErrLoggingDisabled is returned for feedback when no interaction log is configured.
var ErrLoggingDisabled = errors.New("interaction logging is disabled")

// HTTPStatus maps service errors to HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, interactions.ErrAnswerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrLoggingDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
