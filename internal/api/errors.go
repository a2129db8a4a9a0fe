package api

import (
	"errors"
	"fmt"

	"eventdeck/internal/session"
)

// ErrSessionExpired is returned when a protected call came back with
// 401 or 403. The session gate has already been invalidated by the
// time callers see this error.
var ErrSessionExpired = errors.New("session expired")

// genericMessage is shown to the user when the server supplied no
// detail, or when the failure never reached the server at all.
const genericMessage = "Something went wrong"

// RemoteError is a non-success API response other than an
// authorization rejection. Detail carries the server-supplied error
// text when present.
type RemoteError struct {
	Status int
	Detail string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

// Message returns the user-facing text for this error: the server
// detail verbatim, or a generic fallback.
func (e *RemoteError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return genericMessage
}

// IsSessionLost reports whether err means the session is gone, either
// rejected by the server or never present locally.
func IsSessionLost(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, session.ErrAuthRequired)
}

// UserMessage converts any error from the client into text suitable
// for an inline message. Transport failures and parse failures all
// collapse to the generic fallback; only a server-supplied detail is
// surfaced verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message()
	}
	if errors.Is(err, session.ErrAuthRequired) {
		return "You must be logged in."
	}
	return genericMessage
}
