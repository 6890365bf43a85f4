package wire

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Token kinds, in the order the lexer tries them.
type TokenKind int

const (
	// TokenStatus is a terminal status line: OK/NO/BYE with optional
	// parenthesized code and optional message.
	TokenStatus TokenKind = iota

	// TokenQuoted is a line carrying one or two double-quoted segments.
	TokenQuoted

	// TokenLiteral is a length-prefixed block announced by {N} or {N+}.
	TokenLiteral

	// TokenPlain is any other line, passed through unmodified.
	TokenPlain
)

// Token is one classified unit of server output.
//
// For TokenStatus, Outcome/Code/Message are set and Fields is nil.
// For the other kinds, Fields holds the 1-2 extracted data fields.
type Token struct {
	Kind   TokenKind
	Fields []string

	Outcome string
	Code    string
	Message string
}

var (
	statusRe  = regexp.MustCompile(`^(OK|NO|BYE)(?: \(([^)]*)\))?(?: (.*))?$`)
	quotedRe  = regexp.MustCompile(`^"([^"]*)"(?: "([^"]*)")?$`)
	literalRe = regexp.MustCompile(`^\{(\d+)\+?\}$`)
)

var crlfBytes = []byte(CRLF)

// ReadToken reads one line from r and classifies it.
//
// Classification is attempted in priority order: status line, quoted
// string, literal announcement, plain line. The order is load-bearing: a
// status line must never be taken for a quoted string, and a literal
// announcement must be recognized before its count could be parsed as
// ordinary text.
//
// A literal announcement triggers an exact read of N+2 bytes (payload
// plus CRLF) instead of another line read. The payload may contain
// quotes, CRLFs or any other bytes that would otherwise be read as line
// structure, which is why the two-phase read must be preserved.
func ReadToken(r *bufio.Reader) (*Token, error) {
	// ReadSlice avoids an allocation for lines that fit the buffer.
	raw, err := r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		raw, err = r.ReadBytes('\n')
	}
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSuffix(raw, []byte("\n"))
	raw = bytes.TrimSuffix(raw, []byte("\r"))
	line := string(raw)

	if m := statusRe.FindStringSubmatch(line); m != nil {
		return &Token{
			Kind:    TokenStatus,
			Outcome: m[1],
			Code:    m[2],
			Message: unquote(m[3]),
		}, nil
	}

	if m := quotedRe.FindStringSubmatch(line); m != nil {
		fields := []string{m[1]}
		// The second segment is optional; m[2] is empty both when the
		// segment is absent and when it is "". Distinguish by looking at
		// the raw line.
		if strings.Count(line, `"`) == 4 {
			fields = append(fields, m[2])
		}
		return &Token{Kind: TokenQuoted, Fields: fields}, nil
	}

	if m := literalRe.FindStringSubmatch(line); m != nil {
		size, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &ParseError{Message: "invalid literal length: " + m[1], Err: err}
		}
		// Payload plus its trailing CRLF in a single exact-length read.
		block := make([]byte, size+2)
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, &ParseError{Message: "short literal read", Err: err}
		}
		if !bytes.HasSuffix(block, crlfBytes) {
			return nil, &ParseError{Message: "literal block not terminated by CRLF"}
		}
		return &Token{Kind: TokenLiteral, Fields: []string{string(block[:size])}}, nil
	}

	return &Token{Kind: TokenPlain, Fields: []string{line}}, nil
}

// ReadResponse drives ReadToken until a terminal status line arrives.
//
// Non-terminal tokens are accumulated in order as Response.Data tuples.
// An OK outcome returns the accumulated response; NO and BYE return a
// *ResponseError carrying the optional code and message. Exactly one
// terminal status line is consumed per call.
func ReadResponse(r *bufio.Reader) (*Response, error) {
	resp := &Response{}
	for {
		tok, err := ReadToken(r)
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenStatus {
			resp.Data = append(resp.Data, tok.Fields)
			continue
		}
		if tok.Outcome == OutcomeOK {
			resp.Code = tok.Code
			resp.Message = tok.Message
			return resp, nil
		}
		return nil, &ResponseError{
			Outcome: tok.Outcome,
			Code:    tok.Code,
			Message: tok.Message,
		}
	}
}

// unquote strips one level of surrounding double quotes, if present.
// Status-line messages are usually quoted but some servers send them bare.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
