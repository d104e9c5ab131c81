// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the worker pool contract used by hosts embedding hioload-pool.

package api

// Pool is a fixed set of workers draining a shared FIFO task queue.
type Pool interface {
	// Start spawns the configured number of workers.
	Start() error

	// Submit enqueues task for a single execution.
	Submit(task Task) error

	// SubmitRepeat enqueues task to be run n times back-to-back on one worker.
	SubmitRepeat(task Task, n int) error

	// Stop halts dispatch and waits for every worker to exit.
	Stop() error

	// Close stops the pool, drops pending tasks and rejects later submissions.
	Close() error

	// Workers returns the number of workers spawned by the current run.
	Workers() int

	StatsSource
}

// StatsSource exposes a point-in-time snapshot of pool counters.
type StatsSource interface {
	Stats() PoolStats
}

// PoolStats is a snapshot of pool state. Counters are monotonic for the
// lifetime of the pool, across restarts.
type PoolStats struct {
	ID          string
	Name        string
	Running     bool
	Workers     int
	BusyWorkers int
	Pending     int
	Submitted   uint64
	Completed   uint64
	Failed      uint64
	Executions  uint64
}
