//go:build windows
// +build windows

// File: internal/concurrency/topology_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Windows CPU probe across all processor groups.

package concurrency

import "golang.org/x/sys/windows"

func platformProbeCPUs() (int, error) {
	n := int(windows.GetActiveProcessorCount(windows.ALL_PROCESSOR_GROUPS))
	if n < 1 {
		return 0, ErrTopologyUnknown
	}
	return n, nil
}
