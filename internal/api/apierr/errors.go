package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/chessarchive/internal/model"
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
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodePlayerNotFound  = "PLAYER_NOT_FOUND"
	CodeArchiveNotFound = "ARCHIVE_NOT_FOUND"
	CodePlayerNotInGame = "PLAYER_NOT_IN_GAME"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeUpstreamTimeout = "UPSTREAM_TIMEOUT"
	CodeInternalError   = "INTERNAL_ERROR"
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

// StatusOf returns the HTTP status WriteError would use for err
func StatusOf(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var re *model.RetrievalError
	if errors.As(err, &re) {
		switch {
		case re.Timeout:
			return &httpError{http.StatusGatewayTimeout, APIError{CodeUpstreamTimeout, "Remote archive timed out"}}
		case re.StatusCode == http.StatusNotFound && isMonthURL(re.Target):
			return &httpError{http.StatusNotFound, APIError{CodeArchiveNotFound, "Month archive not found: " + re.Target}}
		case re.StatusCode == http.StatusNotFound:
			return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found: " + re.Target}}
		default:
			return &httpError{http.StatusBadGateway, APIError{CodeUpstreamError, re.Error()}}
		}
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrInvalidPlayerName):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, "Invalid player name"}}
	case errors.Is(err, model.ErrMalformedMonthURL), errors.Is(err, model.ErrInvalidRecord):
		return &httpError{http.StatusBadGateway, APIError{CodeUpstreamError, "Remote archive returned invalid data"}}
	case errors.Is(err, model.ErrPlayerNotInGame):
		return &httpError{http.StatusUnprocessableEntity, APIError{CodePlayerNotInGame, "Player is not in every game"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// isMonthURL reports whether a retrieval target is a month archive rather
// than a player name
func isMonthURL(target string) bool {
	_, err := model.ParseMonthURL(target)
	return err == nil
}
