package server

import (
	"net"

	"github.com/limjoxin/redisx/internal/resp"
	"go.uber.org/zap"
)

const readChunkSize = 8 * 1024

// slot is a single-value, single-use handoff for one in-flight reply.
// It is created at submission time and written to exactly once, by
// whichever worker finishes that frame's dispatch.
type slot chan resp.Value

// Session owns one client connection: it reads bytes, extracts frames,
// hands each off to the pool, and writes replies back strictly in the
// order their frames were parsed -- the per-session single-writer lane
// described in the design notes. Dispatch completing out of order on the
// pool never reorders what reaches the socket, because the writer
// drains an ordering channel of slots rather than a channel of replies.
type Session struct {
	conn   net.Conn
	engine *Engine
	pool   *Pool
	logger *zap.Logger

	order chan slot
	done  chan struct{}
}

// NewSession wraps conn for dispatch through engine on pool.
func NewSession(conn net.Conn, engine *Engine, pool *Pool, logger *zap.Logger) *Session {
	return &Session{
		conn:   conn,
		engine: engine,
		pool:   pool,
		logger: logger,
		order:  make(chan slot, 256),
		done:   make(chan struct{}),
	}
}

// Serve runs the read loop and the write loop concurrently and blocks
// until the connection closes. It never returns an error: on a transport
// failure the session is torn down silently, without reporting the error.
func (s *Session) Serve() {
	if s.logger != nil {
		s.logger.Debug("client connected", zap.String("remote", s.conn.RemoteAddr().String()))
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	s.readLoop()

	close(s.done)
	close(s.order)
	<-writerDone
	s.conn.Close() //nolint:errcheck

	if s.logger != nil {
		s.logger.Debug("client disconnected", zap.String("remote", s.conn.RemoteAddr().String()))
	}
}

func (s *Session) readLoop() {
	var pending []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := s.conn.Read(chunk)
		if n > 0 {
			pending = append(pending, chunk[:n]...)
		}
		if err != nil {
			return
		}

		for {
			args, consumed, perr := resp.Parse(pending)
			if perr != nil {
				if resp.NeedMore(perr) {
					break
				}
				pe, _ := perr.(*resp.ProtocolError)
				drop := consumed
				if pe != nil {
					drop = pe.Drop
				}
				if drop <= 0 || drop > len(pending) {
					drop = len(pending)
				}
				if s.logger != nil {
					s.logger.Warn("protocol error", zap.Error(perr), zap.String("remote", s.conn.RemoteAddr().String()))
				}
				s.submitFixed(resp.ErrProto())
				pending = pending[drop:]
				continue
			}
			if consumed == 0 {
				break
			}
			s.submit(args)
			pending = pending[consumed:]
		}
	}
}

// submit hands a parsed frame to the pool, reserving its place in the
// write order before dispatch starts so completion order on the pool
// cannot affect socket order.
func (s *Session) submit(args [][]byte) {
	sl := make(slot, 1)
	select {
	case s.order <- sl:
	case <-s.done:
		return
	}
	s.pool.Submit(func() {
		sl <- s.engine.Execute(args)
	})
}

// submitFixed reserves a write-order slot for a reply that is already
// known (a protocol error), with no dispatch involved.
func (s *Session) submitFixed(v resp.Value) {
	sl := make(slot, 1)
	select {
	case s.order <- sl:
	case <-s.done:
		return
	}
	sl <- v
}

// writeLoop drains the order channel until Serve closes it. On a write
// error it closes the connection outright and keeps discarding slots
// until Serve closes the order channel: a half-open socket could
// otherwise leave the read loop blocked forever on a full order channel
// with nothing draining it.
func (s *Session) writeLoop() {
	enc := resp.NewEncoder(s.conn)
	for sl := range s.order {
		v := <-sl
		if err := enc.Write(v); err != nil {
			s.conn.Close() //nolint:errcheck
			for range s.order {
			}
			return
		}
		if err := enc.Flush(); err != nil {
			s.conn.Close() //nolint:errcheck
			for range s.order {
			}
			return
		}
	}
}
