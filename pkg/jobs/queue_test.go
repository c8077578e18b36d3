package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 2)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a"}))
	require.NoError(t, q.Enqueue(Job{ID: "b"}))

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-done:
			seen[id] = true
		case <-time.After(2 * time.Second):
			t.Fatal("job not processed")
		}
	}
	require.True(t, seen["a"] && seen["b"])
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var calls int32
	gaveUp := make(chan Job, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond, OnGiveUp: func(j Job, err error) { gaveUp <- j }})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "x"}))

	select {
	case job := <-gaveUp:
		require.Equal(t, "x", job.ID)
		require.Equal(t, 3, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("queue never gave up")
	}
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	require.ErrorIs(t, q.Enqueue(Job{ID: "a"}), ErrQueueStopped)
}

func TestQueueFullAndStopHandsBackBufferedJobs(t *testing.T) {
	running := make(chan string, 4)
	var mu sync.Mutex
	var abandoned []string

	q := NewQueue("test", func(ctx context.Context, job Job) error {
		running <- job.ID
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{Workers: 1, BufferSize: 1, OnGiveUp: func(j Job, err error) {
		mu.Lock()
		abandoned = append(abandoned, j.ID)
		mu.Unlock()
	}})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "a"}))
	select {
	case id := <-running:
		require.Equal(t, "a", id)
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the first job")
	}

	require.NoError(t, q.Enqueue(Job{ID: "b"}))
	require.ErrorIs(t, q.Enqueue(Job{ID: "c"}), ErrQueueFull)

	q.Stop()
	require.ErrorIs(t, q.Enqueue(Job{ID: "d"}), ErrQueueStopped)

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"a", "b"}, abandoned)
}

func TestQueueRecoversFromPanickingHandler(t *testing.T) {
	gaveUp := make(chan error, 1)
	q := NewQueue("test", func(ctx context.Context, job Job) error {
		panic("cell overflow")
	}, QueueConfig{OnGiveUp: func(j Job, err error) { gaveUp <- err }})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "p"}))
	select {
	case err := <-gaveUp:
		assert.Contains(t, err.Error(), "cell overflow")
	case <-time.After(2 * time.Second):
		t.Fatal("panicking job was not reported")
	}
}
