package server

import (
	"sync"

	"go.uber.org/zap"
)

// Pool is a fixed-size worker pool that runs submitted jobs off the I/O
// path, the Go shape of the reference's condition-variable thread pool:
// a shared queue, a fixed set of goroutines draining it, and a clean
// shutdown that lets queued jobs drain before returning.
type Pool struct {
	jobs   chan func()
	wg     sync.WaitGroup
	once   sync.Once
	done   chan struct{}
	logger *zap.Logger
}

// NewPool starts n worker goroutines, n clamped to at least 1.
func NewPool(n int, logger *zap.Logger) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs:   make(chan func(), 1024),
		done:   make(chan struct{}),
		logger: logger,
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	if p.logger != nil {
		p.logger.Debug("worker pool started", zap.Int("workers", n))
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job()
		case <-p.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case job := <-p.jobs:
					job()
				default:
					return
				}
			}
		}
	}
}

// Submit enqueues job for execution by some worker. It blocks only if
// the queue is saturated; it never runs job inline. A Submit racing
// with Close may be silently dropped.
func (p *Pool) Submit(job func()) {
	select {
	case <-p.done:
		return
	case p.jobs <- job:
	}
}

// Close stops accepting new jobs and waits for queued jobs to finish.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
	if p.logger != nil {
		p.logger.Debug("worker pool stopped")
	}
}
