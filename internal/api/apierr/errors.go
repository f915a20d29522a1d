package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/humanorbot/internal/model"
	"github.com/mcoot/humanorbot/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeAlreadyQueued     = "ALREADY_QUEUED"
	CodeNotInSession      = "NOT_IN_SESSION"
	CodeWrongPhase        = "WRONG_PHASE"
	CodeInvalidVote       = "INVALID_VOTE"
	CodeEmptyMessage      = "EMPTY_MESSAGE"
	CodeInvalidSubmission = "INVALID_SUBMISSION"
	CodeUnknownMode       = "UNKNOWN_MODE"
	CodeProviderNotFound  = "PROVIDER_NOT_FOUND"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrAlreadyQueued):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyQueued, "Already queued or in a session"}}
	case errors.Is(err, model.ErrNotQueued):
		return &httpError{http.StatusNotFound, APIError{CodeNotInSession, "Not in the queue"}}
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeNotInSession, "Session not found"}}
	case errors.Is(err, model.ErrNotInSession):
		return &httpError{http.StatusBadRequest, APIError{CodeNotInSession, "Not in a session"}}
	case errors.Is(err, model.ErrWrongPhase):
		return &httpError{http.StatusBadRequest, APIError{CodeWrongPhase, "Action not valid in the current phase"}}
	case errors.Is(err, model.ErrInvalidVote):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidVote, `Vote must be "human" or "bot"`}}
	case errors.Is(err, model.ErrEmptyMessage):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyMessage, "Message text is required"}}
	case errors.Is(err, model.ErrInvalidSubmission):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidSubmission, "Submission does not match the mode"}}
	case errors.Is(err, model.ErrUnknownMode):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownMode, "Unknown mode"}}
	case errors.Is(err, model.ErrProviderNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeProviderNotFound, "Provider not found"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidSecret):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid join secret"}}
	case errors.Is(err, auth.ErrInvalidToken):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired token"}}
	case errors.Is(err, auth.ErrNotAdmin):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid admin secret"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
