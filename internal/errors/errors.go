package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUserNotFound is returned when an update or delete matches no user.
	// Absence is an expected outcome, not a failure of the store.
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreUnavailable is returned when no writable backend could take a write.
	ErrStoreUnavailable = errors.New("no storage backend available for write")
	// ErrInvalidName is returned when a user name is empty or blank.
	ErrInvalidName = errors.New("invalid user name")
	// ErrInvalidUnreadDays is returned when unread days fall outside the fixed bound.
	ErrInvalidUnreadDays = errors.New("unread days must be between 0 and 7")
	// ErrUnsupportedChannel is returned for an unrecognized notification channel name.
	ErrUnsupportedChannel = errors.New("unsupported notification channel")
	// ErrChannelNotConfigured is returned before any network call when a channel
	// is missing required configuration.
	ErrChannelNotConfigured = errors.New("notification channel not configured")
	// ErrNoChannelsConfigured is returned when a broadcast finds zero usable channels.
	ErrNoChannelsConfigured = errors.New("no notification channels configured")
)

// BackendError wraps an I/O failure from a specific storage backend. The
// facade converts these into fallback attempts; only full exhaustion surfaces.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// NewBackendError wraps err with the originating backend name.
func NewBackendError(backend string, err error) *BackendError {
	return &BackendError{Backend: backend, Err: err}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidName):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_NAME")
	case errors.Is(err, ErrInvalidUnreadDays):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_UNREAD_DAYS")
	case errors.Is(err, ErrUnsupportedChannel):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "UNSUPPORTED_CHANNEL")
	case errors.Is(err, ErrChannelNotConfigured):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "CHANNEL_NOT_CONFIGURED")
	case errors.Is(err, ErrNoChannelsConfigured):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NO_CHANNELS_CONFIGURED")
	case errors.Is(err, ErrStoreUnavailable):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "STORE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
