package concurrency

import (
	"sync"
	"testing"
	"time"

	"github.com/momentics/hioload-pool/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop() error { return nil }

func TestTaskQueue_FIFO(t *testing.T) {
	q := NewTaskQueue(api.DrainGraceful)
	q.mu.Lock()
	q.openLocked()
	q.mu.Unlock()

	for i := 1; i <= 5; i++ {
		q.Enqueue(Job{Task: api.TaskFunc(noop), Repeat: i})
	}
	require.Equal(t, 5, q.Len())

	for i := 1; i <= 5; i++ {
		j, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, i, j.Repeat)
	}
	assert.Equal(t, 0, q.Len())
}

func TestTaskQueue_DequeueStoppedEmpty(t *testing.T) {
	q := NewTaskQueue(api.DrainGraceful)

	_, err := q.Dequeue()

	assert.ErrorIs(t, err, ErrQueueStopping)
}

func TestTaskQueue_GracefulDrainsAfterShutdown(t *testing.T) {
	q := NewTaskQueue(api.DrainGraceful)
	q.Enqueue(Job{Task: api.TaskFunc(noop), Repeat: 1})
	q.Enqueue(Job{Task: api.TaskFunc(noop), Repeat: 1})

	for i := 0; i < 2; i++ {
		_, err := q.Dequeue()
		require.NoError(t, err)
	}
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueStopping)
}

func TestTaskQueue_ImmediateStopsWithPending(t *testing.T) {
	q := NewTaskQueue(api.DrainImmediate)
	q.Enqueue(Job{Task: api.TaskFunc(noop), Repeat: 1})

	_, err := q.Dequeue()

	assert.ErrorIs(t, err, ErrQueueStopping)
	assert.Equal(t, 1, q.Len(), "pending task must stay queued")
}

func TestTaskQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewTaskQueue(api.DrainGraceful)
	q.mu.Lock()
	q.openLocked()
	q.mu.Unlock()

	got := make(chan Job, 1)
	go func() {
		j, err := q.Dequeue()
		if err == nil {
			got <- j
		}
	}()

	select {
	case <-got:
		t.Fatal("dequeue returned on an empty running queue")
	case <-time.After(20 * time.Millisecond):
	}

	q.Enqueue(Job{Task: api.TaskFunc(noop), Repeat: 7})
	select {
	case j := <-got:
		assert.Equal(t, 7, j.Repeat)
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by enqueue")
	}
}

func TestTaskQueue_ShutdownWakesAllWaiters(t *testing.T) {
	q := NewTaskQueue(api.DrainGraceful)
	q.mu.Lock()
	q.openLocked()
	q.mu.Unlock()

	const waiters = 4
	var wg sync.WaitGroup
	errs := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := q.Dequeue()
			errs <- err
		}()
	}
	time.Sleep(10 * time.Millisecond)

	q.mu.Lock()
	q.shutdownLocked()
	q.mu.Unlock()
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.ErrorIs(t, err, ErrQueueStopping)
	}
}

func TestTaskQueue_InconsistentHead(t *testing.T) {
	q := NewTaskQueue(api.DrainGraceful)
	q.mu.Lock()
	q.openLocked()
	q.items.Add("not a job")
	q.mu.Unlock()

	_, err := q.Dequeue()

	assert.ErrorIs(t, err, ErrQueueInconsistent)
}

func TestTaskQueue_Clear(t *testing.T) {
	q := NewTaskQueue(api.DrainImmediate)
	for i := 0; i < 3; i++ {
		q.Enqueue(Job{Task: api.TaskFunc(noop), Repeat: 1})
	}

	assert.Equal(t, 3, q.Clear())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Clear())
}
