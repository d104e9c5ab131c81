// File: internal/concurrency/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pool counters. Producer-side and worker-side counters sit on separate cache
// lines so submission does not contend with completion accounting.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

type counters struct {
	submitted atomic.Uint64
	_         cpu.CacheLinePad

	completed  atomic.Uint64
	failed     atomic.Uint64
	executions atomic.Uint64
	_          cpu.CacheLinePad

	busy atomic.Int64
	live atomic.Int64
}

// Stats is a snapshot of ThreadPool counters. Failed counts faulted
// repetitions; Completed counts jobs whose every repetition succeeded.
// Under FaultPropagate, Running can be true with Workers == 0 once every
// worker has exited on a fault; submitted tasks then wait for Stop and Start.
type Stats struct {
	Running     bool
	Workers     int
	BusyWorkers int
	Pending     int
	Submitted   uint64
	Completed   uint64
	Failed      uint64
	Executions  uint64
}
