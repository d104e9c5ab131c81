// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "errors"

var (
	// ErrPoolClosed indicates the pool has been torn down by Close
	ErrPoolClosed = errors.New("thread pool is closed")

	// ErrAlreadyRunning is returned by Start on a running pool
	ErrAlreadyRunning = errors.New("thread pool already running")

	// ErrStopInProgress is returned by Start while workers of a previous run are still joining
	ErrStopInProgress = errors.New("thread pool stop in progress")

	// ErrInvalidWorkerCount indicates invalid worker count configuration
	ErrInvalidWorkerCount = errors.New("invalid worker count")

	// ErrInvalidRepeatCount indicates a task submitted with repeat < 1
	ErrInvalidRepeatCount = errors.New("invalid repeat count")

	// ErrNilTask indicates a nil task was submitted
	ErrNilTask = errors.New("nil task")

	// ErrQueueStopping is the dequeue outcome that tells a worker to exit
	ErrQueueStopping = errors.New("task queue stopping")

	// ErrQueueInconsistent signals a dequeue that yielded no task from a non-empty queue
	ErrQueueInconsistent = errors.New("task queue inconsistent")

	// ErrTopologyUnknown indicates the CPU probe could not determine a usable count
	ErrTopologyUnknown = errors.New("CPU topology unknown")

	// ErrAffinityNotSupported indicates CPU affinity is not supported on this platform
	ErrAffinityNotSupported = errors.New("CPU affinity not supported")
)
