package marketplace

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ErrUnavailable wraps transport-level failures; the user sees a generic
// "cannot connect" message instead of dial/DNS noise.
var ErrUnavailable = errors.New("cannot connect to the server")

// APIError is a non-2xx backend response. Message carries the backend's
// `message` or `error` body field verbatim; it is shown to the user as-is.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string { return e.Message }

func newAPIError(status int, path string, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Message
	if msg == "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d %s", status, path)
	}
	return &APIError{StatusCode: status, Path: path, Message: msg}
}

// IsAuthError reports whether err is a backend 401/403; dashboards treat it as
// the (only) signal that the held token is no longer valid.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}

// IsUnavailable reports whether err is a transport failure.
func IsUnavailable(err error) bool {
	return errors.Cause(err) == ErrUnavailable
}
