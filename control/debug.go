// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug probes for internal inspection.

package control

import (
	"runtime"
	"sync"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/internal/concurrency"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}

// RegisterPlatformProbes adds host topology probes.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.os", func() any {
		return runtime.GOOS + "/" + runtime.GOARCH
	})
	dp.RegisterProbe("platform.cpus", func() any {
		n, err := concurrency.ProbeCPUs()
		if err != nil {
			return err.Error()
		}
		return n
	})
}

// RegisterPoolProbe adds a probe reporting the stats of source under "pool.<name>".
func RegisterPoolProbe(dp *DebugProbes, source api.StatsSource) {
	name := source.Stats().Name
	dp.RegisterProbe("pool."+name, func() any {
		st := source.Stats()
		return map[string]any{
			"id":           st.ID,
			"running":      st.Running,
			"workers":      st.Workers,
			"busy_workers": st.BusyWorkers,
			"pending":      st.Pending,
			"submitted":    st.Submitted,
			"completed":    st.Completed,
			"failed":       st.Failed,
			"executions":   st.Executions,
		}
	})
}
