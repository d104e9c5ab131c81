// Package pool
// Author: momentics <momentics@gmail.com>
//
// Public worker pool for hioload-pool hosts.
//
// A Pool owns a fixed set of worker goroutines that drain one unbounded FIFO
// queue. Tasks may be submitted before Start; they run once workers exist.
// Stop joins every worker and may be called any number of times. Close is
// the teardown step: it stops, drops whatever is still queued, and rejects
// further Submit and Start calls with ErrPoolClosed.
//
// What happens to queued work on Stop is the DrainMode:
//   - api.DrainGraceful (default): workers finish the whole queue first.
//   - api.DrainImmediate: workers exit after their in-flight task; the rest
//     waits for the next Start.
//
// A task that returns an error or panics is a fault. Under api.FaultIsolate
// (default) the worker logs each faulting repetition and still runs the full
// repeat count; under api.FaultPropagate the first fault ends the task, the
// worker exits and Stop returns the fault.
//
// Stop and Close join the workers, so they must not be called from inside a task.
package pool
