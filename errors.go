package managesieve

import (
	"errors"
	"fmt"

	"github.com/sievekit/managesieve/wire"
)

// ErrClientClosed is returned by every operation attempted after the
// session reached its terminal Closed state (via Logout or close).
var ErrClientClosed = errors.New("managesieve: client closed")

// AuthError reports a failure to establish the authenticated session:
// a mechanism the server does not advertise, a mechanism this client
// does not implement, or credentials the server rejected. All of these
// are fatal to session establishment; nothing is retried.
type AuthError struct {
	// Mechanism is the configured mechanism name.
	Mechanism string

	// Reason describes the failure when no server response is involved.
	Reason string

	// Err is the underlying round-trip error for credential rejections,
	// typically a *wire.ResponseError.
	Err error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("managesieve: authentication with %s failed: %v", e.Mechanism, e.Err)
	}
	return fmt.Sprintf("managesieve: authentication with %s failed: %s", e.Mechanism, e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// CommandError wraps a protocol-level failure (a NO or BYE terminal
// status) with the operation that triggered it. The underlying
// *wire.ResponseError carries the code and message verbatim.
//
// A failed command leaves the session usable: the round-trip discipline
// guarantees the stream sits at a clean boundary after any terminal
// status line.
type CommandError struct {
	Op  string
	Err error
}

func (e *CommandError) Error() string {
	return "managesieve: " + e.Op + ": " + e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// asResponseError unwraps err to the protocol-level failure, if any.
func asResponseError(err error) (*wire.ResponseError, bool) {
	var respErr *wire.ResponseError
	if errors.As(err, &respErr) {
		return respErr, true
	}
	return nil, false
}

// ResponseCode extracts the server response code from err, if err wraps
// a *wire.ResponseError carrying one.
func ResponseCode(err error) (string, bool) {
	var respErr *wire.ResponseError
	if errors.As(err, &respErr) && respErr.Code != "" {
		return respErr.Code, true
	}
	return "", false
}
