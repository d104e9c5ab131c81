// File: internal/concurrency/topology.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Cross-platform CPU topology probe used to size the pool when no worker
// count is given. Platform files provide platformProbeCPUs.

package concurrency

import (
	"log/slog"
	"runtime"
	"strconv"
	"strings"
)

// TopologyProbe reports the number of usable parallel execution contexts.
type TopologyProbe func() (int, error)

// ProbeCPUs returns the number of CPUs this process may run on.
func ProbeCPUs() (int, error) {
	return platformProbeCPUs()
}

// ResolveWorkers returns requested when positive. Otherwise it asks probe and
// falls back to runtime.NumCPU, then to 1, so the result is always >= 1.
func ResolveWorkers(requested int, probe TopologyProbe, log *slog.Logger) int {
	if requested > 0 {
		return requested
	}
	if probe == nil {
		probe = ProbeCPUs
	}
	n, err := probe()
	if err == nil && n > 0 {
		return n
	}
	fallback := runtime.NumCPU()
	if fallback < 1 {
		fallback = 1
	}
	if log != nil {
		log.Warn("CPU probe failed, using fallback worker count", "probed", n, "err", err, "workers", fallback)
	}
	return fallback
}

// parseCgroupCPUMax parses a cgroup v2 cpu.max line ("<quota> <period>") and
// returns the quota rounded up to whole CPUs. ok is false when unlimited or malformed.
func parseCgroupCPUMax(line string) (cpus int, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] == "max" {
		return 0, false
	}
	quota, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil || quota <= 0 {
		return 0, false
	}
	period, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || period <= 0 {
		return 0, false
	}
	cpus = int((quota + period - 1) / period)
	if cpus < 1 {
		cpus = 1
	}
	return cpus, true
}
