package wire

import (
	"bytes"
	"io"
	"strconv"
	"sync"
)

// Buffer pool for building command lines
var bufferPool = sync.Pool{
	New: func() any {
		// Typical command is well under 256 bytes; script uploads grow
		// the buffer as needed and it is returned to the pool anyway.
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}

// WriteCommand serializes a command name plus optional arguments into
// wire bytes and writes them in a single Write call.
//
// Format: COMMAND[ ARG]...\r\n
//
// Arguments are emitted verbatim: callers are expected to have prepared
// them with Quote or Literal as the command requires.
func WriteCommand(w io.Writer, name string, args ...string) error {
	buf := bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufferPool.Put(buf)
	}()

	buf.WriteString(name)
	for _, arg := range args {
		buf.WriteString(Space)
		buf.WriteString(arg)
	}
	buf.WriteString(CRLF)

	_, err := w.Write(buf.Bytes())
	return err
}

// Quote wraps a string in double quotes for use as a command argument.
// Script and mechanism names travel quoted.
func Quote(s string) string {
	return `"` + s + `"`
}

// Literal encodes content as a non-synchronizing literal:
//
//	{<byte-length>+}\r\n<content>
//
// The receiver reads exactly len(content) bytes after the announcement,
// so the content may contain quotes, CRLFs or any other bytes. The "+"
// marks the literal as non-synchronizing: it is sent without waiting for
// a server continuation prompt. The result is passed to WriteCommand as
// an ordinary argument; the encoder's trailing CRLF terminates the block.
func Literal(content []byte) string {
	var b bytes.Buffer
	b.Grow(len(content) + 16)
	b.WriteByte('{')
	b.WriteString(strconv.Itoa(len(content)))
	b.WriteString("+}")
	b.WriteString(CRLF)
	b.Write(content)
	return b.String()
}
