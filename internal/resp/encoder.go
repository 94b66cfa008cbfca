package resp

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// Encoder serializes Value replies onto an output stream.
type Encoder struct {
	w *bufio.Writer
}

// NewEncoder wraps w with a buffered RESP encoder.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bufio.NewWriter(w)}
}

// Write serializes v and buffers it; call Flush to push bytes to the
// underlying stream.
func (e *Encoder) Write(v Value) error {
	switch v.Type {
	case TypeInteger:
		return e.writeHeader(':', v.Int)

	case TypeSimpleString:
		return e.writeRaw('+', v.Str)

	case TypeError:
		return e.writeRaw('-', v.Str)

	case TypeBulkString:
		if v.IsNull {
			_, err := e.w.WriteString("$-1\r\n")
			return err
		}
		if err := e.writeHeader('$', int64(len(v.Str))); err != nil {
			return err
		}
		if _, err := e.w.Write(v.Str); err != nil {
			return err
		}
		_, err := e.w.WriteString("\r\n")
		return err

	case TypeArray:
		if v.IsNull {
			_, err := e.w.WriteString("*-1\r\n")
			return err
		}
		if err := e.writeHeader('*', int64(len(v.Array))); err != nil {
			return err
		}
		for _, el := range v.Array {
			if err := e.Write(el); err != nil {
				return err
			}
		}
		return nil
	}

	return nil
}

// Flush pushes buffered bytes to the underlying writer.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

func (e *Encoder) writeHeader(prefix byte, n int64) error {
	if err := e.w.WriteByte(prefix); err != nil {
		return err
	}
	b := e.w.AvailableBuffer()
	b = strconv.AppendInt(b, n, 10)
	if _, err := e.w.Write(b); err != nil {
		return err
	}
	_, err := e.w.WriteString("\r\n")
	return err
}

func (e *Encoder) writeRaw(prefix byte, b []byte) error {
	if err := e.w.WriteByte(prefix); err != nil {
		return err
	}
	if _, err := e.w.Write(b); err != nil {
		return err
	}
	_, err := e.w.WriteString("\r\n")
	return err
}

// Encode serializes v in one shot and returns the resulting bytes. Used
// by cmd/redisx-cli to build request frames; the server's sessions write
// replies through an Encoder instead.
func Encode(v Value) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	_ = enc.Write(v)
	_ = enc.Flush()
	return buf.Bytes()
}
