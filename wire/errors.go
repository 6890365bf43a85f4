package wire

// Error types for ManageSieve round trips.
//
// A ResponseError is the protocol-level failure: the server terminated
// the round trip with NO or BYE. A ParseError is a client-side framing
// failure; the stream position is no longer trustworthy and the
// connection must be closed.

// ResponseError is returned when a round trip terminates with a NO or
// BYE status line. Code and Message are carried verbatim from the wire
// and may be empty.
//
// After a NO the stream is left at a clean boundary and the connection
// stays usable. After a BYE the server is closing the connection.
type ResponseError struct {
	Outcome string // "NO" or "BYE"
	Code    string
	Message string
}

func (e *ResponseError) Error() string {
	s := "managesieve: server said " + e.Outcome
	if e.Code != "" {
		s += " (" + e.Code + ")"
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	return s
}

// IsBye reports whether the server announced it is closing the
// connection. No further commands can be issued after a BYE.
func (e *ResponseError) IsBye() bool {
	return e.Outcome == OutcomeBye
}

// ParseError represents a client-side framing failure: a literal block
// that could not be read in full or was not CRLF-terminated. The
// connection state is uncertain and the caller should close it.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return "managesieve: parse error: " + e.Message + ": " + e.Err.Error()
	}
	return "managesieve: parse error: " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
