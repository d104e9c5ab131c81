package pool_test

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/momentics/hioload-pool/api"
	"github.com/momentics/hioload-pool/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_Defaults(t *testing.T) {
	p := pool.New(pool.WithLogger(quietLogger()))

	assert.NotEmpty(t, p.ID())
	assert.Equal(t, "default", p.Name())
	assert.False(t, p.Running())
	assert.Equal(t, 0, p.Workers())
	assert.NotEqual(t, p.ID(), pool.New(pool.WithLogger(quietLogger())).ID())
}

func TestPool_FIFOOrderSingleProducer(t *testing.T) {
	p := pool.New(pool.WithWorkers(1), pool.WithLogger(quietLogger()))
	const n = 100
	var mu sync.Mutex
	got := make([]int, 0, n)
	for i := 0; i < n; i++ {
		i := i
		require.NoError(t, p.Go(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}

	require.NoError(t, p.Start())
	require.NoError(t, p.Close())

	require.Len(t, got, n)
	for i := range got {
		assert.Equal(t, i, got[i])
	}
}

func TestPool_RepeatCountExact(t *testing.T) {
	p := pool.New(pool.WithWorkers(4), pool.WithLogger(quietLogger()))
	require.NoError(t, p.Start())
	counts := make([]atomic.Int64, 10)
	for i := range counts {
		i := i
		require.NoError(t, p.SubmitRepeat(api.TaskFunc(func() error {
			counts[i].Add(1)
			return nil
		}), i+1))
	}

	require.NoError(t, p.Stop())

	for i := range counts {
		assert.Equal(t, int64(i+1), counts[i].Load(), "task %d", i)
	}
	st := p.Stats()
	assert.Equal(t, uint64(10), st.Completed)
	assert.Equal(t, uint64(55), st.Executions)
}

func TestPool_ConcurrentProducersExactlyOnce(t *testing.T) {
	p := pool.New(pool.WithWorkers(8), pool.WithLogger(quietLogger()))
	require.NoError(t, p.Start())
	defer p.Close()

	const producers, perProducer = 4, 250
	seen := make([]atomic.Int32, producers*perProducer)
	var total atomic.Int64

	var g errgroup.Group
	for w := 0; w < producers; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				slot := w*perProducer + i
				if err := p.Go(func() {
					seen[slot].Add(1)
					total.Add(1)
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Eventually(t, func() bool {
		return total.Load() == producers*perProducer
	}, 5*time.Second, time.Millisecond)
	require.NoError(t, p.Stop())

	assert.Equal(t, int64(producers*perProducer), total.Load())
	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load(), "task %d", i)
	}
	assert.Equal(t, uint64(producers*perProducer), p.Stats().Submitted)
}

func TestPool_BlockingTaskDoesNotStallOtherWorkers(t *testing.T) {
	p := pool.New(pool.WithWorkers(2), pool.WithLogger(quietLogger()))
	require.NoError(t, p.Start())
	block := make(chan struct{})
	t.Cleanup(func() {
		close(block)
		_ = p.Close()
	})

	require.NoError(t, p.Go(func() { <-block }))
	var fast atomic.Int64
	for i := 0; i < 9; i++ {
		require.NoError(t, p.Go(func() { fast.Add(1) }))
	}

	assert.Eventually(t, func() bool { return fast.Load() == 9 }, 2*time.Second, time.Millisecond)
	assert.Eventually(t, func() bool { return p.Stats().BusyWorkers == 1 }, time.Second, time.Millisecond)
}

func TestPool_AutoSizeOnProbeFailure(t *testing.T) {
	p := pool.New(
		pool.WithTopologyProbe(func() (int, error) { return 0, errors.New("unknown vendor") }),
		pool.WithLogger(quietLogger()),
	)
	require.NoError(t, p.Start())
	defer p.Close()

	assert.GreaterOrEqual(t, p.Workers(), 1)

	done := make(chan struct{})
	require.NoError(t, p.Go(func() { close(done) }))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("auto-sized pool did not run the task")
	}
}

func TestPool_StartNOverridesWorkers(t *testing.T) {
	p := pool.New(pool.WithWorkers(2), pool.WithLogger(quietLogger()))
	require.NoError(t, p.StartN(5))
	defer p.Close()

	assert.Equal(t, 5, p.Workers())
	assert.ErrorIs(t, p.StartN(1), pool.ErrAlreadyRunning)
	assert.ErrorIs(t, pool.New(pool.WithLogger(quietLogger())).StartN(-3), pool.ErrInvalidWorkerCount)
}

func TestPool_StopTwiceAndRestart(t *testing.T) {
	p := pool.New(pool.WithWorkers(2), pool.WithLogger(quietLogger()))
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
	require.NoError(t, p.Stop())
	assert.False(t, p.Running())
	assert.Equal(t, 0, p.Workers())

	var ran atomic.Int64
	require.NoError(t, p.Go(func() { ran.Add(1) }), "submit while stopped is queued")
	assert.Equal(t, 1, p.Pending())

	require.NoError(t, p.Start())
	require.NoError(t, p.Close())
	assert.Equal(t, int64(1), ran.Load())
}

func TestPool_CloseRejectsSubmit(t *testing.T) {
	p := pool.New(pool.WithLogger(quietLogger()))
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Go(func() {}), pool.ErrPoolClosed)
	assert.ErrorIs(t, p.Submit(api.TaskFunc(func() error { return nil })), pool.ErrPoolClosed)
	assert.ErrorIs(t, p.Start(), pool.ErrPoolClosed)
}

func TestPool_InvalidSubmit(t *testing.T) {
	p := pool.New(pool.WithLogger(quietLogger()))
	defer p.Close()

	assert.ErrorIs(t, p.Go(nil), pool.ErrNilTask)
	assert.ErrorIs(t, p.Submit(nil), pool.ErrNilTask)
	assert.ErrorIs(t, p.SubmitRepeat(api.TaskFunc(func() error { return nil }), 0), pool.ErrInvalidRepeatCount)
}

func TestPool_FaultHandlerAndPolicies(t *testing.T) {
	boom := errors.New("boom")

	t.Run("isolate", func(t *testing.T) {
		var faults atomic.Int64
		p := pool.New(
			pool.WithWorkers(1),
			pool.WithFaultHandler(func(error) { faults.Add(1) }),
			pool.WithLogger(quietLogger()),
		)
		require.NoError(t, p.Go(func() { panic("bad task") }))
		require.NoError(t, p.Submit(api.TaskFunc(func() error { return boom })))
		var ok atomic.Bool
		require.NoError(t, p.Go(func() { ok.Store(true) }))

		require.NoError(t, p.Start())
		require.NoError(t, p.Stop())

		assert.Equal(t, int64(2), faults.Load())
		assert.True(t, ok.Load())
		assert.Equal(t, uint64(2), p.Stats().Failed)
	})

	t.Run("propagate", func(t *testing.T) {
		p := pool.New(
			pool.WithWorkers(1),
			pool.WithFaultPolicy(api.FaultPropagate),
			pool.WithLogger(quietLogger()),
		)
		require.NoError(t, p.Submit(api.TaskFunc(func() error { return boom })))

		require.NoError(t, p.Start())
		err := p.Stop()

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, p.Workers())
	})
}

func TestPool_LifecycleThroughInterface(t *testing.T) {
	var p api.Pool = pool.New(pool.WithWorkers(2), pool.WithLogger(quietLogger()))
	var ran atomic.Int64

	require.NoError(t, p.Start())
	assert.Equal(t, 2, p.Workers())
	require.NoError(t, p.SubmitRepeat(api.TaskFunc(func() error { ran.Add(1); return nil }), 3))
	require.NoError(t, p.Close())

	assert.Equal(t, int64(3), ran.Load())
	assert.False(t, p.Stats().Running)
	assert.ErrorIs(t, p.Submit(api.TaskFunc(func() error { return nil })), pool.ErrPoolClosed)
	assert.ErrorIs(t, p.Start(), pool.ErrPoolClosed)
}

func TestPool_ImmediateDrainMode(t *testing.T) {
	p := pool.New(
		pool.WithWorkers(1),
		pool.WithDrainMode(api.DrainImmediate),
		pool.WithLogger(quietLogger()),
	)
	require.NoError(t, p.Start())
	release := make(chan struct{})
	require.NoError(t, p.Go(func() { <-release }))
	require.Eventually(t, func() bool { return p.Stats().BusyWorkers == 1 }, time.Second, time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Go(func() {}))
	}

	stopped := make(chan error)
	go func() { stopped <- p.Stop() }()
	require.Eventually(t, func() bool { return !p.Running() }, time.Second, time.Millisecond)
	close(release)
	require.NoError(t, <-stopped)

	assert.Equal(t, 3, p.Pending())
	require.NoError(t, p.Close())
	assert.Equal(t, 0, p.Pending())
}
