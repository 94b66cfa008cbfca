package server

import (
	"sort"
	"strings"
	"time"

	"github.com/limjoxin/redisx/internal/resp"
	"github.com/limjoxin/redisx/internal/store"
)

// cmdCommandDocs implements a minimal COMMAND/COMMAND COUNT, enough for a
// client to introspect what this server recognizes. It is not part of
// the wire contract's required table; it rides along because nothing
// excludes it and the command table already has the names on hand.
func cmdCommandDocs(e *Engine) handler {
	return func(args [][]byte, st *store.Store, now time.Time) resp.Value {
		if len(args) >= 2 && strings.EqualFold(string(args[1]), "COUNT") {
			return resp.MakeInteger(int64(len(e.commands)))
		}

		names := make([]string, 0, len(e.commands))
		for name := range e.commands {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]resp.Value, len(names))
		for i, n := range names {
			out[i] = resp.MakeBulkStringFromString(strings.ToLower(n))
		}
		return resp.MakeArray(out)
	}
}
