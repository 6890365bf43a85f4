package wire

// Response is a fully assembled round-trip result.
//
// This is a low-level container without command-specific logic: how the
// tuples are interpreted (script listings, capability lines, a literal
// script body) is decided by the caller.
type Response struct {
	// Data holds one tuple per non-terminal token, in the order the
	// lines were read. Each tuple has 1 or 2 fields: two quoted segments
	// yield two fields, a single quoted segment, a literal payload or a
	// plain line yield one.
	Data [][]string

	// Code is the optional parenthesized response code from the terminal
	// OK line (e.g. "WARNINGS" on CHECKSCRIPT).
	Code string

	// Message is the optional free-text message from the terminal OK line.
	Message string
}

// First returns the first field of the first tuple, or "" if the
// response carried no data. GETSCRIPT result shaping uses this: the body
// is the single literal token, empty when absent.
func (r *Response) First() string {
	if len(r.Data) == 0 || len(r.Data[0]) == 0 {
		return ""
	}
	return r.Data[0][0]
}

// IsEmpty reports whether the response carried no data tuples.
func (r *Response) IsEmpty() bool {
	return len(r.Data) == 0
}
