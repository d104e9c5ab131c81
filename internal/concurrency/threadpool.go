// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// ThreadPool runs a fixed set of worker goroutines over a shared TaskQueue.
//
// Lifecycle: Start spawns workers, Stop requests shutdown and joins them,
// Close stops permanently and drops whatever is still queued. Submit is
// accepted before Start and between Stop and a later Start.

package concurrency

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/momentics/hioload-pool/api"
	"golang.org/x/sync/errgroup"
)

// Config holds ThreadPool parameters fixed at construction.
type Config struct {
	DrainMode   api.DrainMode
	FaultPolicy api.FaultPolicy
	OnFault     func(error) // called on the worker goroutine after each task fault
	PinWorkers  bool
	Probe       TopologyProbe // nil means ProbeCPUs
	Logger      *slog.Logger  // nil means slog.Default()
}

// ThreadPool is the worker pool controller.
type ThreadPool struct {
	queue   *TaskQueue
	policy  api.FaultPolicy
	onFault func(error)
	pin     bool
	probe   TopologyProbe
	log     *slog.Logger
	stats   counters

	// guarded by queue.mu
	current *run
	closed  bool
}

// run tracks the workers spawned by one Start.
type run struct {
	group   errgroup.Group
	workers int
	once    sync.Once
	err     error
}

// NewThreadPool creates a stopped pool. No goroutines are spawned until Start.
func NewThreadPool(cfg Config) *ThreadPool {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	probe := cfg.Probe
	if probe == nil {
		probe = ProbeCPUs
	}
	return &ThreadPool{
		queue:   NewTaskQueue(cfg.DrainMode),
		policy:  cfg.FaultPolicy,
		onFault: cfg.OnFault,
		pin:     cfg.PinWorkers,
		probe:   probe,
		log:     log,
	}
}

// Start spawns n workers. n == 0 sizes the pool from the CPU probe.
func (tp *ThreadPool) Start(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, n)
	}
	workers := ResolveWorkers(n, tp.probe, tp.log)

	q := tp.queue
	q.mu.Lock()
	defer q.mu.Unlock()
	switch {
	case tp.closed:
		return ErrPoolClosed
	case q.running:
		return ErrAlreadyRunning
	case tp.current != nil:
		return ErrStopInProgress
	}

	r := &run{workers: workers}
	tp.current = r
	q.openLocked()
	tp.stats.live.Store(int64(workers))
	for i := 0; i < workers; i++ {
		i := i
		r.group.Go(func() error { return tp.work(i) })
	}
	tp.log.Info("thread pool started",
		"workers", workers,
		"pending", q.items.Length(),
		"drain_mode", q.mode.String(),
		"fault_policy", tp.policy.String())
	return nil
}

// Stop clears the running flag, wakes every worker and waits for all of them
// to exit. It returns the first worker error of the run. Calling Stop on a
// stopped pool is a no-op; concurrent callers wait for the same join.
func (tp *ThreadPool) Stop() error {
	q := tp.queue
	q.mu.Lock()
	r := tp.current
	if q.running {
		q.shutdownLocked()
	}
	q.mu.Unlock()

	if r == nil {
		return nil
	}
	r.once.Do(func() {
		r.err = r.group.Wait()
		q.mu.Lock()
		if tp.current == r {
			tp.current = nil
		}
		pending := q.items.Length()
		q.mu.Unlock()
		tp.log.Info("thread pool stopped", "workers", r.workers, "pending", pending, "err", r.err)
	})
	return r.err
}

// Close stops the pool for good. Tasks still queued are dropped and later
// calls to Submit or Start fail with ErrPoolClosed.
func (tp *ThreadPool) Close() error {
	q := tp.queue
	q.mu.Lock()
	tp.closed = true
	q.mu.Unlock()

	err := tp.Stop()

	if dropped := q.Clear(); dropped > 0 {
		tp.log.Warn("thread pool closed with pending tasks", "dropped", dropped)
	}
	return err
}

// Submit enqueues task to run repeat times on a single worker.
func (tp *ThreadPool) Submit(task api.Task, repeat int) error {
	if task == nil {
		return ErrNilTask
	}
	if repeat < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidRepeatCount, repeat)
	}
	q := tp.queue
	q.mu.Lock()
	if tp.closed {
		q.mu.Unlock()
		return ErrPoolClosed
	}
	q.enqueueLocked(Job{Task: task, Repeat: repeat})
	tp.stats.submitted.Add(1)
	q.mu.Unlock()
	return nil
}

// Running reports whether workers are accepting work.
func (tp *ThreadPool) Running() bool {
	tp.queue.mu.Lock()
	defer tp.queue.mu.Unlock()
	return tp.queue.running
}

// Workers returns the number of live workers.
func (tp *ThreadPool) Workers() int {
	return int(tp.stats.live.Load())
}

// Pending returns the number of queued tasks.
func (tp *ThreadPool) Pending() int {
	return tp.queue.Len()
}

// Stats returns a snapshot of pool counters.
func (tp *ThreadPool) Stats() Stats {
	return Stats{
		Running:     tp.Running(),
		Workers:     tp.Workers(),
		BusyWorkers: int(tp.stats.busy.Load()),
		Pending:     tp.Pending(),
		Submitted:   tp.stats.submitted.Load(),
		Completed:   tp.stats.completed.Load(),
		Failed:      tp.stats.failed.Load(),
		Executions:  tp.stats.executions.Load(),
	}
}

// work is the dispatch loop of a single worker.
func (tp *ThreadPool) work(id int) error {
	defer func() {
		running := tp.Running()
		if tp.stats.live.Add(-1) == 0 && running {
			tp.log.Error("no live workers left while pool is running, queued tasks wait for Stop and Start",
				"pending", tp.Pending())
		}
	}()
	if tp.pin {
		pinWorker(id, tp.log)
	}
	for {
		job, err := tp.queue.Dequeue()
		if errors.Is(err, ErrQueueStopping) {
			return nil
		}
		if err != nil {
			tp.log.Error("internal consistency fault, worker terminating", "worker", id, "err", err)
			return fmt.Errorf("worker %d: %w", id, err)
		}
		if err := tp.execute(id, job); err != nil && tp.policy == api.FaultPropagate {
			tp.log.Error("task fault, worker terminating", "worker", id, "err", err)
			return fmt.Errorf("worker %d: %w", id, err)
		}
	}
}

// execute runs job.Task job.Repeat times back-to-back and returns the first
// fault. Under FaultIsolate every repetition runs regardless of faults; under
// FaultPropagate the first fault ends the job.
func (tp *ThreadPool) execute(id int, job Job) error {
	tp.stats.busy.Add(1)
	defer tp.stats.busy.Add(-1)

	var first error
	for i := 0; i < job.Repeat; i++ {
		err := tp.runOnce(job.Task)
		if err == nil {
			continue
		}
		tp.stats.failed.Add(1)
		if tp.onFault != nil {
			tp.onFault(err)
		}
		if tp.policy == api.FaultPropagate {
			return err
		}
		tp.log.Warn("task fault isolated", "worker", id, "repetition", i+1, "repeat", job.Repeat, "err", err)
		if first == nil {
			first = err
		}
	}
	if first == nil {
		tp.stats.completed.Add(1)
	}
	return first
}

func (tp *ThreadPool) runOnce(task api.Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &api.TaskPanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	tp.stats.executions.Add(1)
	return task.Run()
}
