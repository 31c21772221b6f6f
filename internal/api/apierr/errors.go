package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MCASE28/planb-tier/internal/model"
	"github.com/MCASE28/planb-tier/internal/services/auth"
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
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeRoomNotProvisioned = "ROOM_NOT_PROVISIONED"
	CodeRoomClosed         = "ROOM_CLOSED"
	CodeRoomFull           = "ROOM_FULL"
	CodeWrongCode          = "WRONG_CODE"
	CodeEmptyName          = "EMPTY_NAME"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeInvalidCapacity    = "INVALID_CAPACITY"
	CodeInternalError      = "INTERNAL_ERROR"
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
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrRoomNotProvisioned):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeRoomNotProvisioned, "Room record has not been provisioned"}}
	case errors.Is(err, model.ErrRoomClosed):
		return &httpError{http.StatusConflict, APIError{CodeRoomClosed, "Room is not accepting players"}}
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrWrongCode):
		return &httpError{http.StatusConflict, APIError{CodeWrongCode, "Access code does not match"}}
	case errors.Is(err, model.ErrEmptyName):
		return &httpError{http.StatusBadRequest, APIError{CodeEmptyName, "Name must not be empty"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrInvalidCapacity):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidCapacity, "Capacity must be at least 1"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidPassword):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid host password"}}
	case errors.Is(err, auth.ErrNoPassword):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeInternalError, "Host password is not configured"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired host session"}}

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
