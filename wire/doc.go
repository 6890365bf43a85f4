// Package wire provides the low-level wire implementation of the
// ManageSieve protocol (RFC 5804): the response lexer and assembler and
// the command encoder.
//
// This package serves as the foundation for the session engine in the
// parent package. It focuses on correctness of framing and parsing
// without imposing connection management or command semantics.
//
// # Reading
//
// ReadToken consumes one line (or one length-prefixed literal block) and
// classifies it:
//
//	tok, err := wire.ReadToken(bufio.NewReader(conn))
//
// ReadResponse drives ReadToken until the terminal status line, so one
// call corresponds to exactly one round trip:
//
//	resp, err := wire.ReadResponse(r)
//	var respErr *wire.ResponseError
//	if errors.As(err, &respErr) && respErr.IsBye() {
//	    // server is closing the connection
//	}
//
// # Writing
//
// WriteCommand emits one CRLF-terminated command line. Arguments are
// prepared by the caller with Quote (script and mechanism names) or
// Literal (script bodies, binary-safe):
//
//	wire.WriteCommand(conn, wire.CmdPutScript,
//	    wire.Quote("vacation"), wire.Literal(body))
//
// # Framing ambiguity
//
// A line can be a status line, a quoted string, a literal announcement
// or plain text, and the classification order matters: {5} must not be
// parsed as text, and OK "done" must not be parsed as quoted data. The
// lexer resolves this with prioritized matching, and literals are read
// with an exact-length raw read because their payload may contain bytes
// that look like line terminators.
package wire
