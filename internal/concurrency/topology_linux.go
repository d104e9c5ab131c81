//go:build linux
// +build linux

// File: internal/concurrency/topology_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux CPU probe: scheduler affinity mask capped by the cgroup v2 CPU quota.

package concurrency

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var cgroupCPUMaxPath = "/sys/fs/cgroup/cpu.max"

func platformProbeCPUs() (int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return 0, fmt.Errorf("sched_getaffinity: %w", err)
	}
	n := set.Count()
	if data, err := os.ReadFile(cgroupCPUMaxPath); err == nil {
		if limit, ok := parseCgroupCPUMax(string(data)); ok && limit < n {
			n = limit
		}
	}
	if n < 1 {
		return 0, ErrTopologyUnknown
	}
	return n, nil
}
