package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/limjoxin/redisx/internal/resp"
	"github.com/limjoxin/redisx/internal/store"
)

func (e *Engine) registerCommands() {
	e.register("PING", cmdPing)
	e.register("ECHO", cmdEcho)
	e.register("SET", cmdSet)
	e.register("GET", cmdGet)
	e.register("DEL", cmdDel)
	e.register("EXISTS", cmdExists)
	e.register("EXPIRE", cmdExpire)
	e.register("PEXPIRE", cmdPexpire)
	e.register("PERSIST", cmdPersist)
	e.register("TTL", cmdTTL)
	e.register("TYPE", cmdType)
	e.register("MGET", cmdMget)
	e.register("MSET", cmdMset)
	e.register("HSET", cmdHset)
	e.register("HGET", cmdHget)
	e.register("HDEL", cmdHdel)
	e.register("HEXISTS", cmdHexists)
	e.register("HLEN", cmdHlen)
	e.register("HGETALL", cmdHgetall)
	e.register("HMGET", cmdHmget)
	e.register("COMMAND", cmdCommandDocs(e))
}

func cmdPing(args [][]byte, st *store.Store, now time.Time) resp.Value {
	switch len(args) {
	case 1:
		return resp.MakeSimpleString("PONG")
	case 2:
		return resp.MakeBulkString(args[1])
	default:
		return resp.ErrWrongArgs("ping")
	}
}

func cmdEcho(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgs("echo")
	}
	return resp.MakeBulkString(args[1])
}

func cmdSet(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 3 && len(args) != 5 {
		return resp.ErrWrongArgs("set")
	}
	key, val := string(args[1]), args[2]

	var deadline time.Time
	hasTTL := false
	if len(args) == 5 {
		opt := strings.ToUpper(string(args[3]))
		n, err := strconv.ParseInt(string(args[4]), 10, 64)
		if err != nil {
			return resp.ErrNotInteger()
		}
		if n < 0 {
			n = 0
		}
		switch opt {
		case "EX":
			deadline = now.Add(time.Duration(n) * time.Second)
		case "PX":
			deadline = now.Add(time.Duration(n) * time.Millisecond)
		default:
			return resp.ErrSyntax()
		}
		hasTTL = true
	}

	sh := st.ShardFor(key)
	sh.Set(key, val, now)
	if hasTTL {
		sh.SetExpire(key, deadline, now)
	}
	return resp.MakeSimpleString("OK")
}

func cmdGet(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgs("get")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindHash {
		return resp.ErrWrongType()
	}
	v, ok := sh.Get(key, now)
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(v)
}

func cmdDel(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgs("del")
	}
	key := string(args[1])
	if st.ShardFor(key).Del(key) {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

func cmdExists(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) < 2 {
		return resp.ErrWrongArgs("exists")
	}
	var count int64
	for _, k := range args[1:] {
		key := string(k)
		if st.ShardFor(key).TypeOf(key, now) != store.KindNone {
			count++
		}
	}
	return resp.MakeInteger(count)
}

func cmdExpire(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 3 {
		return resp.ErrWrongArgsLong("expire")
	}
	n, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return resp.ErrNotInteger()
	}
	if n < 0 {
		n = 0
	}
	return applyExpire(st, string(args[1]), now.Add(time.Duration(n)*time.Second), now)
}

func cmdPexpire(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 3 {
		return resp.ErrWrongArgs("pexpire")
	}
	n, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return resp.ErrNotInteger()
	}
	if n < 0 {
		n = 0
	}
	return applyExpire(st, string(args[1]), now.Add(time.Duration(n)*time.Millisecond), now)
}

func applyExpire(st *store.Store, key string, deadline, now time.Time) resp.Value {
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindNone {
		return resp.MakeInteger(0)
	}
	sh.SetExpire(key, deadline, now)
	return resp.MakeInteger(1)
}

func cmdPersist(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgs("persist")
	}
	key := string(args[1])
	if st.ShardFor(key).ClearExpire(key, now) {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

func cmdTTL(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgsLong("ttl")
	}
	key := string(args[1])
	ms := st.ShardFor(key).TTLMillis(key, now)
	switch ms {
	case -2, -1:
		return resp.MakeInteger(ms)
	default:
		secs := (ms + 999) / 1000
		return resp.MakeInteger(secs)
	}
}

func cmdType(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgs("type")
	}
	key := string(args[1])
	switch st.ShardFor(key).TypeOf(key, now) {
	case store.KindString:
		return resp.MakeBulkStringFromString("string")
	case store.KindHash:
		return resp.MakeBulkStringFromString("hash")
	default:
		return resp.MakeBulkStringFromString("none")
	}
}

func cmdMget(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) < 2 {
		return resp.ErrWrongArgs("mget")
	}
	keys := args[1:]
	for _, k := range keys {
		key := string(k)
		if st.ShardFor(key).TypeOf(key, now) == store.KindHash {
			return resp.ErrWrongType()
		}
	}
	out := make([]resp.Value, len(keys))
	for i, k := range keys {
		key := string(k)
		v, ok := st.ShardFor(key).Get(key, now)
		if !ok {
			out[i] = resp.MakeNilBulkString()
			continue
		}
		out[i] = resp.MakeBulkString(v)
	}
	return resp.MakeArray(out)
}

func cmdMset(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) < 3 || (len(args)-1)%2 != 0 {
		return resp.ErrWrongArgs("mset")
	}
	for i := 1; i < len(args); i += 2 {
		key := string(args[i])
		st.ShardFor(key).Set(key, args[i+1], now)
	}
	return resp.MakeSimpleString("OK")
}

func cmdHset(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) < 4 || len(args)%2 != 0 {
		return resp.ErrWrongArgs("hset")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindString {
		return resp.ErrWrongType()
	}
	var created int64
	for i := 2; i < len(args); i += 2 {
		if sh.HSet(key, string(args[i]), args[i+1], now) {
			created++
		}
	}
	return resp.MakeInteger(created)
}

func cmdHget(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 3 {
		return resp.ErrWrongArgs("hget")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindString {
		return resp.ErrWrongType()
	}
	v, ok := sh.HGet(key, string(args[2]), now)
	if !ok {
		return resp.MakeNilBulkString()
	}
	return resp.MakeBulkString(v)
}

func cmdHdel(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 3 {
		return resp.ErrWrongArgs("hdel")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindString {
		return resp.ErrWrongType()
	}
	if sh.HDel(key, string(args[2]), now) {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

func cmdHexists(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 3 {
		return resp.ErrWrongArgs("hexists")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindString {
		return resp.ErrWrongType()
	}
	if sh.HExists(key, string(args[2]), now) {
		return resp.MakeInteger(1)
	}
	return resp.MakeInteger(0)
}

func cmdHlen(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgs("hlen")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindString {
		return resp.ErrWrongType()
	}
	return resp.MakeInteger(sh.HLen(key, now))
}

func cmdHgetall(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) != 2 {
		return resp.ErrWrongArgs("hgetall")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindString {
		return resp.ErrWrongType()
	}
	flat := sh.HGetAll(key, now)
	out := make([]resp.Value, len(flat))
	for i, b := range flat {
		out[i] = resp.MakeBulkString(b)
	}
	return resp.MakeArray(out)
}

func cmdHmget(args [][]byte, st *store.Store, now time.Time) resp.Value {
	if len(args) < 3 {
		return resp.ErrWrongArgs("hmget")
	}
	key := string(args[1])
	sh := st.ShardFor(key)
	if sh.TypeOf(key, now) == store.KindString {
		return resp.ErrWrongType()
	}
	fields := args[2:]
	out := make([]resp.Value, len(fields))
	for i, f := range fields {
		v, ok := sh.HGet(key, string(f), now)
		if !ok {
			out[i] = resp.MakeNilBulkString()
			continue
		}
		out[i] = resp.MakeBulkString(v)
	}
	return resp.MakeArray(out)
}
