// File: internal/concurrency/taskqueue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TaskQueue is the unbounded FIFO shared by producers and workers.
// One mutex guards the items and the running flag; one condition wakes idle workers.

package concurrency

import (
	"sync"

	"github.com/eapache/queue"
	"github.com/momentics/hioload-pool/api"
)

// Job is a queued task together with its repeat count.
type Job struct {
	Task   api.Task
	Repeat int
}

// TaskQueue is safe for concurrent use.
type TaskQueue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   *queue.Queue // not thread-safe, guarded by mu
	running bool
	mode    api.DrainMode
}

// NewTaskQueue returns an empty, stopped queue using the given drain mode.
func NewTaskQueue(mode api.DrainMode) *TaskQueue {
	q := &TaskQueue{
		items: queue.New(),
		mode:  mode,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends j to the tail and wakes one waiting worker.
func (q *TaskQueue) Enqueue(j Job) {
	q.mu.Lock()
	q.enqueueLocked(j)
	q.mu.Unlock()
}

func (q *TaskQueue) enqueueLocked(j Job) {
	q.items.Add(j)
	q.cond.Signal()
}

// Dequeue removes the head job, blocking while the queue is empty and running.
// It returns ErrQueueStopping once the queue is stopped and the drain mode
// allows no further work to be handed out.
func (q *TaskQueue) Dequeue() (Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Length() == 0 && q.running {
		q.cond.Wait()
	}
	if !q.running && (q.mode == api.DrainImmediate || q.items.Length() == 0) {
		return Job{}, ErrQueueStopping
	}

	j, ok := q.items.Remove().(Job)
	if !ok || j.Task == nil {
		return Job{}, ErrQueueInconsistent
	}
	return j, nil
}

// Len returns the number of pending jobs.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Clear drops every pending job and returns how many were dropped.
func (q *TaskQueue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.clearLocked()
}

func (q *TaskQueue) clearLocked() int {
	n := q.items.Length()
	if n > 0 {
		q.items = queue.New()
	}
	return n
}

// Mode returns the drain mode fixed at construction.
func (q *TaskQueue) Mode() api.DrainMode {
	return q.mode
}

// openLocked marks the queue running. Caller holds mu.
func (q *TaskQueue) openLocked() {
	q.running = true
}

// shutdownLocked clears the running flag and wakes every waiter so each
// re-checks the stop condition. Caller holds mu.
func (q *TaskQueue) shutdownLocked() {
	q.running = false
	q.cond.Broadcast()
}
