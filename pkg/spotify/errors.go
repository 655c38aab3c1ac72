package spotify

import (
	"fmt"
)

// Error represents a Spotify Web API error response.
//
// The Error type carries the HTTP status and the message Spotify
// returned in the error body. It implements error and supports
// errors.Is comparison by status.
type Error struct {
	Status  int    // HTTP status code
	Message string // Error message from Spotify
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("spotify: error %d: %s", e.Status, e.Message)
}

// Is checks if the target error is a Spotify error with the same status.
//
// This allows errors.Is() to work with *Error types.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Status == t.Status
}

// Predefined errors for common cases.
var (
	// ErrNoToken is returned when a Web API request is attempted
	// before a token has been set on the client.
	ErrNoToken = fmt.Errorf("spotify: access token required")

	// ErrNoRefreshToken is returned when a refresh is requested but
	// the stored token carries no refresh token. The caller must run
	// the interactive authorization flow again.
	ErrNoRefreshToken = fmt.Errorf("spotify: no refresh token available")
)

// apiErrorBody is the JSON envelope Spotify wraps error responses in.
type apiErrorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
