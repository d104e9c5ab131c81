// File: pool/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool wraps the internal thread pool controller behind the api.Pool contract.

package pool

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/internal/concurrency"
)

// Errors returned by Pool methods.
var (
	ErrPoolClosed         = concurrency.ErrPoolClosed
	ErrAlreadyRunning     = concurrency.ErrAlreadyRunning
	ErrStopInProgress     = concurrency.ErrStopInProgress
	ErrInvalidWorkerCount = concurrency.ErrInvalidWorkerCount
	ErrInvalidRepeatCount = concurrency.ErrInvalidRepeatCount
	ErrNilTask            = concurrency.ErrNilTask
)

// Pool is a worker pool. Construct it with New; the zero value is not usable.
type Pool struct {
	id      string
	name    string
	workers int
	cfg     concurrency.Config
	tp      *concurrency.ThreadPool
}

var _ api.Pool = (*Pool)(nil)

// New creates a stopped pool.
func New(opts ...Option) *Pool {
	p := &Pool{
		id:   uuid.NewString(),
		name: "default",
	}
	for _, opt := range opts {
		opt(p)
	}
	log := p.cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	p.cfg.Logger = log.With("pool", p.name, "pool_id", p.id)
	p.tp = concurrency.NewThreadPool(p.cfg)
	return p
}

// ID returns the unique identifier assigned at construction.
func (p *Pool) ID() string { return p.id }

// Name returns the pool label.
func (p *Pool) Name() string { return p.name }

// Start spawns the configured number of workers.
func (p *Pool) Start() error {
	return p.tp.Start(p.workers)
}

// StartN spawns n workers, overriding the configured count. Zero auto-sizes.
func (p *Pool) StartN(n int) error {
	return p.tp.Start(n)
}

// Stop halts dispatch according to the drain mode and joins all workers.
func (p *Pool) Stop() error {
	return p.tp.Stop()
}

// Close stops the pool permanently and drops pending tasks.
func (p *Pool) Close() error {
	return p.tp.Close()
}

// Submit enqueues task for one execution.
func (p *Pool) Submit(task api.Task) error {
	return p.tp.Submit(task, 1)
}

// SubmitRepeat enqueues task to run n times in a row on one worker.
func (p *Pool) SubmitRepeat(task api.Task, n int) error {
	return p.tp.Submit(task, n)
}

// Go enqueues fn for one execution.
func (p *Pool) Go(fn func()) error {
	if fn == nil {
		return ErrNilTask
	}
	return p.tp.Submit(api.TaskFunc(func() error {
		fn()
		return nil
	}), 1)
}

// Running reports whether workers are accepting work.
func (p *Pool) Running() bool { return p.tp.Running() }

// Workers returns the number of live workers.
func (p *Pool) Workers() int { return p.tp.Workers() }

// Pending returns the number of queued tasks.
func (p *Pool) Pending() int { return p.tp.Pending() }

// Stats returns a snapshot of pool counters.
func (p *Pool) Stats() api.PoolStats {
	st := p.tp.Stats()
	return api.PoolStats{
		ID:          p.id,
		Name:        p.name,
		Running:     st.Running,
		Workers:     st.Workers,
		BusyWorkers: st.BusyWorkers,
		Pending:     st.Pending,
		Submitted:   st.Submitted,
		Completed:   st.Completed,
		Failed:      st.Failed,
		Executions:  st.Executions,
	}
}
