// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker pool core for hioload-pool: the FIFO task queue, the thread pool
// controller with its dispatch loop, the CPU topology probe used for
// auto-sizing, and optional per-worker CPU pinning.
//
// Producers and workers meet only in TaskQueue, whose single mutex guards
// both the pending items and the running flag. All implementations are
// cross-platform (Linux/Windows) with a portable fallback.
package concurrency
