//go:build !linux && !windows
// +build !linux,!windows

// File: internal/concurrency/topology_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fallback CPU probe for platforms without an affinity API.

package concurrency

import "runtime"

func platformProbeCPUs() (int, error) {
	n := runtime.NumCPU()
	if n < 1 {
		return 0, ErrTopologyUnknown
	}
	return n, nil
}
