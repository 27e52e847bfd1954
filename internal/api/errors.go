package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoResponse indicates the request never produced a server response.
// Transport-level failures (refused connection, dropped socket) all collapse
// into this condition so callers can surface one connectivity message.
var ErrNoResponse = errors.New("no response from server")

// ErrUnauthenticated indicates the current session resolves to no identity.
// It is the non-error outcome of a session probe, distinct from a rejected
// mutation.
var ErrUnauthenticated = errors.New("not authenticated")

// Error is a server-declined request. Message holds the human-readable text
// the backend attached to the refusal.
type Error struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// errorBody is the conventional error envelope returned by the backend.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorFromResponse extracts the server's message from a failure body.
// The backend answers with {"error": ...} or {"message": ...}; anything else
// is treated as plain text.
func errorFromResponse(status int, body []byte) *Error {
	message := strings.TrimSpace(string(body))
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err == nil {
		switch {
		case envelope.Error != "":
			message = envelope.Error
		case envelope.Message != "":
			message = envelope.Message
		}
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &Error{Status: status, Message: message}
}
