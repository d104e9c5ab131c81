// File: pool/options.go
// Package pool defines functional options for the Pool facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"log/slog"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/internal/concurrency"
)

// Option customizes pool initialization.
type Option func(*Pool)

// WithName labels the pool in logs and metrics.
func WithName(name string) Option {
	return func(p *Pool) {
		p.name = name
	}
}

// WithWorkers sets the worker count used by Start. Zero sizes the pool from
// the CPU topology.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		p.workers = n
	}
}

// WithDrainMode selects what Stop does with queued tasks.
func WithDrainMode(mode api.DrainMode) Option {
	return func(p *Pool) {
		p.cfg.DrainMode = mode
	}
}

// WithFaultPolicy selects how workers react to failing tasks.
func WithFaultPolicy(policy api.FaultPolicy) Option {
	return func(p *Pool) {
		p.cfg.FaultPolicy = policy
	}
}

// WithFaultHandler registers fn to observe task faults. fn runs on the
// worker goroutine and must not block.
func WithFaultHandler(fn func(error)) Option {
	return func(p *Pool) {
		p.cfg.OnFault = fn
	}
}

// WithCPUPinning binds each worker's OS thread to one CPU.
func WithCPUPinning(enabled bool) Option {
	return func(p *Pool) {
		p.cfg.PinWorkers = enabled
	}
}

// WithTopologyProbe replaces the CPU probe used for auto-sizing.
func WithTopologyProbe(probe func() (int, error)) Option {
	return func(p *Pool) {
		p.cfg.Probe = concurrency.TopologyProbe(probe)
	}
}

// WithLogger sets the base logger. Pool attributes are added to it.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pool) {
		p.cfg.Logger = log
	}
}
