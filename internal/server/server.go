package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"
)

// Serve runs the accept loop on listener, spawning a Session per
// accepted connection and dispatching its frames through engine on
// pool. It blocks until ctx is canceled, at which point it closes the
// listener, closes every still-open connection (unblocking their read
// loops), and waits for their Sessions to tear down before returning.
func Serve(ctx context.Context, listener net.Listener, engine *Engine, pool *Pool, logger *zap.Logger) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	conns := make(map[net.Conn]struct{})

	go func() {
		<-ctx.Done()
		listener.Close() //nolint:errcheck
		mu.Lock()
		for c := range conns {
			c.Close() //nolint:errcheck
		}
		mu.Unlock()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		mu.Lock()
		conns[conn] = struct{}{}
		mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				mu.Lock()
				delete(conns, conn)
				mu.Unlock()
			}()
			sess := NewSession(conn, engine, pool, logger)
			sess.Serve()
		}()
	}
}
