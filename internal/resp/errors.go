package resp

import "fmt"

// Exact reply bodies per the wire contract. Error builders below produce
// the full Error Value (sans the leading '-' and trailing CRLF, which the
// Encoder supplies).

// ErrUnknownCommand builds "-ERR unknown command".
func ErrUnknownCommand() Value { return MakeError("ERR unknown command") }

// ErrEmpty builds "-ERR empty", used when a frame had zero arguments.
func ErrEmpty() Value { return MakeError("ERR empty") }

// ErrWrongArgs builds "-ERR wrong #args for '<cmd>'".
func ErrWrongArgs(cmd string) Value {
	return MakeError(fmt.Sprintf("ERR wrong #args for '%s'", cmd))
}

// ErrWrongArgsLong builds the longer "-ERR wrong number of arguments for
// '<cmd>'" form used by EXPIRE and TTL for source-fidelity.
func ErrWrongArgsLong(cmd string) Value {
	return MakeError(fmt.Sprintf("ERR wrong number of arguments for '%s'", cmd))
}

// ErrNotInteger builds "-ERR value is not an integer or out of range".
func ErrNotInteger() Value { return MakeError("ERR value is not an integer or out of range") }

// ErrSyntax builds "-ERR syntax error".
func ErrSyntax() Value { return MakeError("ERR syntax error") }

// ErrProto builds "-ERR proto", used on malformed framing.
func ErrProto() Value { return MakeError("ERR proto") }

// ErrServer builds "-ERR server error" or, with a non-empty detail,
// "-ERR server error: <detail>".
func ErrServer(detail string) Value {
	if detail == "" {
		return MakeError("ERR server error")
	}
	return MakeError(fmt.Sprintf("ERR server error: %s", detail))
}

// ErrWrongType builds the fixed WRONGTYPE error.
func ErrWrongType() Value {
	return MakeError("WRONGTYPE Operation against a key holding the wrong kind of value")
}
