package gateway

import "errors"

// ErrCredentialInvalidated signals that the server rejected the
// session token on an authenticated call. It forces a global session
// teardown; it is never shown as a form error.
var ErrCredentialInvalidated = errors.New("credential_invalidated")

// RemoteError is a request the API rejected. Message carries the
// server's own wording when present; callers fall back to a generic
// message otherwise.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request rejected"
}

// TransportError wraps a network-level failure. It is surfaced as a
// generic failure and never retried here.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "api unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
