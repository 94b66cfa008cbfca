package server

import (
	"testing"
	"time"

	"github.com/limjoxin/redisx/internal/resp"
	"github.com/limjoxin/redisx/internal/store"
)

func setupEngine(t *testing.T) *Engine {
	t.Helper()
	st, err := store.New(1)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return NewEngine(st, nil)
}

func cmd(parts ...string) [][]byte {
	out := make([][]byte, len(parts))
	for i, p := range parts {
		out[i] = []byte(p)
	}
	return out
}

func TestPing(t *testing.T) {
	e := setupEngine(t)

	tests := []struct {
		name    string
		args    [][]byte
		want    resp.Value
		isError bool
	}{
		{"bare", cmd("PING"), resp.MakeSimpleString("PONG"), false},
		{"with message", cmd("PING", "hello"), resp.MakeBulkStringFromString("hello"), false},
		{"too many args", cmd("PING", "a", "b"), resp.Value{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Execute(tt.args)
			if tt.isError {
				if got.Type != resp.TypeError {
					t.Fatalf("got type %c, want error", got.Type)
				}
				return
			}
			if got.Type != tt.want.Type || string(got.Str) != string(tt.want.Str) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEcho(t *testing.T) {
	e := setupEngine(t)

	got := e.Execute(cmd("ECHO", "hi"))
	if got.Type != resp.TypeBulkString || string(got.Str) != "hi" {
		t.Errorf("got %+v, want bulk 'hi'", got)
	}

	if got := e.Execute(cmd("ECHO")); got.Type != resp.TypeError {
		t.Errorf("expected arity error, got %+v", got)
	}
}

func TestSetGetDel(t *testing.T) {
	e := setupEngine(t)

	if got := e.Execute(cmd("GET", "mykey")); !got.IsNull {
		t.Errorf("expected null for missing key, got %+v", got)
	}

	if got := e.Execute(cmd("SET", "mykey", "myvalue")); string(got.Str) != "OK" {
		t.Errorf("expected OK, got %+v", got)
	}

	if got := e.Execute(cmd("GET", "mykey")); string(got.Str) != "myvalue" {
		t.Errorf("expected myvalue, got %+v", got)
	}

	if got := e.Execute(cmd("DEL", "mykey")); got.Int != 1 {
		t.Errorf("expected 1 deleted, got %+v", got)
	}

	if got := e.Execute(cmd("GET", "mykey")); !got.IsNull {
		t.Errorf("expected null after delete, got %+v", got)
	}

	if got := e.Execute(cmd("DEL", "mykey")); got.Int != 0 {
		t.Errorf("expected 0 for second delete, got %+v", got)
	}
}

func TestSetWithExpireOptions(t *testing.T) {
	e := setupEngine(t)

	if got := e.Execute(cmd("SET", "k", "v", "PX", "50")); string(got.Str) != "OK" {
		t.Fatalf("SET PX failed: %+v", got)
	}
	if got := e.Execute(cmd("TTL", "k")); got.Int == -1 || got.Int == -2 {
		t.Errorf("expected a positive TTL right after SET PX, got %+v", got)
	}

	time.Sleep(80 * time.Millisecond)

	if got := e.Execute(cmd("GET", "k")); !got.IsNull {
		t.Errorf("expected key to have expired, got %+v", got)
	}
	if got := e.Execute(cmd("TTL", "k")); got.Int != -2 {
		t.Errorf("expected TTL -2 after expiry, got %+v", got)
	}
}

func TestSetBadOptionIsSyntaxError(t *testing.T) {
	e := setupEngine(t)
	got := e.Execute(cmd("SET", "k", "v", "ZZ", "5"))
	if got.Type != resp.TypeError || string(got.Str) != "ERR syntax error" {
		t.Errorf("got %+v, want syntax error", got)
	}
}

func TestSetBadTTLIsNotInteger(t *testing.T) {
	e := setupEngine(t)
	got := e.Execute(cmd("SET", "k", "v", "EX", "abc"))
	if got.Type != resp.TypeError || string(got.Str) != "ERR value is not an integer or out of range" {
		t.Errorf("got %+v, want not-an-integer error", got)
	}
}

func TestHashOpsAndWrongType(t *testing.T) {
	e := setupEngine(t)

	if got := e.Execute(cmd("HSET", "h", "a", "1", "b", "2")); got.Int != 2 {
		t.Errorf("expected 2 created fields, got %+v", got)
	}
	if got := e.Execute(cmd("HLEN", "h")); got.Int != 2 {
		t.Errorf("expected HLEN 2, got %+v", got)
	}
	if got := e.Execute(cmd("HGET", "h", "a")); string(got.Str) != "1" {
		t.Errorf("expected HGET a=1, got %+v", got)
	}

	got := e.Execute(cmd("GET", "h"))
	if got.Type != resp.TypeError || string(got.Str) != "WRONGTYPE Operation against a key holding the wrong kind of value" {
		t.Errorf("expected WRONGTYPE, got %+v", got)
	}
}

func TestSetReplacesHash(t *testing.T) {
	e := setupEngine(t)

	e.Execute(cmd("HSET", "h", "a", "1"))
	if got := e.Execute(cmd("SET", "h", "v")); string(got.Str) != "OK" {
		t.Errorf("expected SET to succeed over a hash key, got %+v", got)
	}
	if got := e.Execute(cmd("TYPE", "h")); string(got.Str) != "string" {
		t.Errorf("expected type string after SET, got %+v", got)
	}
}

func TestMsetMget(t *testing.T) {
	e := setupEngine(t)

	if got := e.Execute(cmd("MSET", "x", "1", "y", "2", "z", "3")); string(got.Str) != "OK" {
		t.Fatalf("MSET failed: %+v", got)
	}

	got := e.Execute(cmd("MGET", "x", "y", "missing", "z"))
	if got.Type != resp.TypeArray || len(got.Array) != 4 {
		t.Fatalf("unexpected MGET reply: %+v", got)
	}
	if string(got.Array[0].Str) != "1" || string(got.Array[1].Str) != "2" {
		t.Errorf("unexpected values: %+v", got.Array)
	}
	if !got.Array[2].IsNull {
		t.Errorf("expected missing key to be null")
	}
	if string(got.Array[3].Str) != "3" {
		t.Errorf("unexpected value for z: %+v", got.Array[3])
	}
}

func TestExpirePersist(t *testing.T) {
	e := setupEngine(t)

	if got := e.Execute(cmd("EXPIRE", "nope", "5")); got.Int != 0 {
		t.Errorf("expected 0 for nonexistent key, got %+v", got)
	}

	e.Execute(cmd("SET", "k", "v"))
	if got := e.Execute(cmd("EXPIRE", "k", "100")); got.Int != 1 {
		t.Errorf("expected 1, got %+v", got)
	}
	if got := e.Execute(cmd("PERSIST", "k")); got.Int != 1 {
		t.Errorf("expected 1 after PERSIST, got %+v", got)
	}
	if got := e.Execute(cmd("TTL", "k")); got.Int != -1 {
		t.Errorf("expected -1 after PERSIST, got %+v", got)
	}
}

func TestArityErrorMessages(t *testing.T) {
	e := setupEngine(t)

	tests := []struct {
		name string
		args [][]byte
		want string
	}{
		{"EXPIRE wrong arity uses long form", cmd("EXPIRE", "k"), "ERR wrong number of arguments for 'expire'"},
		{"TTL wrong arity uses long form", cmd("TTL", "k", "extra"), "ERR wrong number of arguments for 'ttl'"},
		{"PEXPIRE wrong arity uses short form", cmd("PEXPIRE", "k"), "ERR wrong #args for 'pexpire'"},
		{"PERSIST wrong arity uses short form", cmd("PERSIST", "k", "extra"), "ERR wrong #args for 'persist'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Execute(tt.args)
			if got.Type != resp.TypeError || string(got.Str) != tt.want {
				t.Errorf("got %+v, want error %q", got, tt.want)
			}
		})
	}
}

func TestPexpire(t *testing.T) {
	e := setupEngine(t)

	if got := e.Execute(cmd("PEXPIRE", "nope", "5000")); got.Int != 0 {
		t.Errorf("expected 0 for nonexistent key, got %+v", got)
	}

	e.Execute(cmd("SET", "k", "v"))
	if got := e.Execute(cmd("PEXPIRE", "k", "50")); got.Int != 1 {
		t.Errorf("expected 1, got %+v", got)
	}
	if got := e.Execute(cmd("TTL", "k")); got.Int == -1 || got.Int == -2 {
		t.Errorf("expected a positive TTL right after PEXPIRE, got %+v", got)
	}
}

func TestTypeAbsent(t *testing.T) {
	e := setupEngine(t)
	if got := e.Execute(cmd("TYPE", "absent")); string(got.Str) != "none" {
		t.Errorf("expected none, got %+v", got)
	}
}

func TestUnknownCommand(t *testing.T) {
	e := setupEngine(t)
	got := e.Execute(cmd("FROBNICATE", "x"))
	if got.Type != resp.TypeError || string(got.Str) != "ERR unknown command" {
		t.Errorf("got %+v, want unknown command error", got)
	}
}
