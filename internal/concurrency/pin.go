// File: internal/concurrency/pin.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Optional worker pinning: each worker binds its OS thread to one CPU of the
// process affinity set. Platform files provide allowedCPUs and pinCurrentThread.

package concurrency

import (
	"log/slog"
	"runtime"
)

// pinWorker locks the calling goroutine to its OS thread and binds that thread
// to a CPU chosen round-robin by worker index. The thread stays locked, so the
// runtime discards it when the worker goroutine returns.
func pinWorker(worker int, log *slog.Logger) {
	cpus := allowedCPUs()
	if len(cpus) == 0 {
		log.Warn("worker pinning skipped", "worker", worker, "err", ErrAffinityNotSupported)
		return
	}
	runtime.LockOSThread()
	cpu := cpus[worker%len(cpus)]
	if err := pinCurrentThread(cpu); err != nil {
		log.Warn("worker pinning failed", "worker", worker, "cpu", cpu, "err", err)
		return
	}
	log.Debug("worker pinned", "worker", worker, "cpu", cpu)
}
