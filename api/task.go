// File: api/task.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Task contract: an opaque invocable unit of deferred work.

package api

// Task is a unit of work executed by a pool worker.
// A Task carries its own state; the pool never inspects it.
type Task interface {
	// Run executes the task once. A non-nil error is reported as a task fault.
	Run() error
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func() error

// Run calls f.
func (f TaskFunc) Run() error {
	return f()
}

// DrainMode selects what workers do with queued tasks once Stop is requested.
type DrainMode int

const (
	// DrainGraceful keeps workers dequeuing until the queue is empty.
	DrainGraceful DrainMode = iota
	// DrainImmediate releases workers as soon as they next reach the queue.
	// Pending tasks stay queued for a later Start or are dropped by Close.
	DrainImmediate
)

func (m DrainMode) String() string {
	switch m {
	case DrainGraceful:
		return "graceful"
	case DrainImmediate:
		return "immediate"
	default:
		return "unknown"
	}
}

// ParseDrainMode maps a config string to a DrainMode.
func ParseDrainMode(s string) (DrainMode, error) {
	switch s {
	case "", "graceful":
		return DrainGraceful, nil
	case "immediate":
		return DrainImmediate, nil
	}
	return DrainGraceful, NewError(ErrCodeInvalidArgument, "unknown drain mode").WithContext("value", s)
}

// FaultPolicy selects how a worker reacts to a failing task.
type FaultPolicy int

const (
	// FaultIsolate logs the fault and keeps the worker running.
	FaultIsolate FaultPolicy = iota
	// FaultPropagate terminates the worker and reports the fault from Stop.
	FaultPropagate
)

func (p FaultPolicy) String() string {
	switch p {
	case FaultIsolate:
		return "isolate"
	case FaultPropagate:
		return "propagate"
	default:
		return "unknown"
	}
}

// ParseFaultPolicy maps a config string to a FaultPolicy.
func ParseFaultPolicy(s string) (FaultPolicy, error) {
	switch s {
	case "", "isolate":
		return FaultIsolate, nil
	case "propagate":
		return FaultPropagate, nil
	}
	return FaultIsolate, NewError(ErrCodeInvalidArgument, "unknown fault policy").WithContext("value", s)
}
