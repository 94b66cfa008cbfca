// Package server hosts the command router (Engine), the per-connection
// pipeline (Session), the worker pool dispatch runs on, and the
// background TTL sweeper.
package server

import (
	"strings"
	"time"

	"github.com/limjoxin/redisx/internal/resp"
	"github.com/limjoxin/redisx/internal/store"
	"go.uber.org/zap"
)

// handler executes one command. args[0] is the command name itself,
// matching the convention the wire protocol uses: a full request frame.
type handler func(args [][]byte, st *store.Store, now time.Time) resp.Value

// Engine owns the command table and the keyspace it dispatches against.
type Engine struct {
	commands map[string]handler
	store    *store.Store
	logger   *zap.Logger
}

// NewEngine builds an Engine with the full recognized command table
// wired against st.
func NewEngine(st *store.Store, logger *zap.Logger) *Engine {
	e := &Engine{
		commands: make(map[string]handler),
		store:    st,
		logger:   logger,
	}
	e.registerCommands()
	return e
}

func (e *Engine) register(name string, h handler) {
	e.commands[strings.ToUpper(name)] = h
}

// Execute resolves args[0] to a command and runs it, recovering from any
// panic inside the handler and converting it to a server-error reply
// rather than letting it take down the worker that ran it.
func (e *Engine) Execute(args [][]byte) (reply resp.Value) {
	if len(args) == 0 {
		return resp.ErrEmpty()
	}

	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Error("command handler panicked", zap.Any("panic", r))
			}
			reply = resp.ErrServer("")
		}
	}()

	name := strings.ToUpper(string(args[0]))
	h, ok := e.commands[name]
	if !ok {
		return resp.ErrUnknownCommand()
	}

	return h(args, e.store, time.Now())
}
