package resp

import (
	"bufio"
	"bytes"
	"testing"
)

func TestReadValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Value
	}{
		{"simple", "+OK\r\n", MakeSimpleString("OK")},
		{"error", "-ERR boom\r\n", MakeError("ERR boom")},
		{"integer", ":42\r\n", MakeInteger(42)},
		{"negative integer", ":-2\r\n", MakeInteger(-2)},
		{"bulk", "$3\r\nfoo\r\n", MakeBulkString([]byte("foo"))},
		{"nil bulk", "$-1\r\n", MakeNilBulkString()},
		{"empty bulk", "$0\r\n\r\n", MakeBulkString([]byte{})},
		{"nil array", "*-1\r\n", MakeNilArray()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bufio.NewReader(bytes.NewReader([]byte(tt.in)))
			got, err := ReadValue(r)
			if err != nil {
				t.Fatalf("ReadValue() error = %v", err)
			}
			if got.Type != tt.want.Type || got.IsNull != tt.want.IsNull ||
				got.Int != tt.want.Int || string(got.Str) != string(tt.want.Str) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadValue_NestedArray(t *testing.T) {
	in := "*2\r\n$3\r\nfoo\r\n*2\r\n:1\r\n:2\r\n"
	r := bufio.NewReader(bytes.NewReader([]byte(in)))

	got, err := ReadValue(r)
	if err != nil {
		t.Fatalf("ReadValue() error = %v", err)
	}
	if got.Type != TypeArray || len(got.Array) != 2 {
		t.Fatalf("unexpected top-level value: %+v", got)
	}
	if string(got.Array[0].Str) != "foo" {
		t.Errorf("unexpected first element: %+v", got.Array[0])
	}
	nested := got.Array[1]
	if nested.Type != TypeArray || len(nested.Array) != 2 {
		t.Fatalf("unexpected nested array: %+v", nested)
	}
	if nested.Array[0].Int != 1 || nested.Array[1].Int != 2 {
		t.Errorf("unexpected nested values: %+v", nested.Array)
	}
}
