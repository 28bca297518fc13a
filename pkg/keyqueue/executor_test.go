package keyqueue

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

func noop(context.Context) error { return nil }

func TestExecutor_FIFOPerKey(t *testing.T) {
	exec := New(Config{QueueSize: 16})
	defer exec.Stop()

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	wg.Add(10)
	for i := 0; i < 10; i++ {
		v := i
		err := exec.Submit(context.Background(), "participant-1", JobFunc(func(context.Context) error {
			defer wg.Done()
			mu.Lock()
			order = append(order, v)
			mu.Unlock()
			return nil
		}))
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestExecutor_SameKeyNeverOverlaps(t *testing.T) {
	exec := New(Config{QueueSize: 64})

	var running, overlaps int32
	for i := 0; i < 50; i++ {
		err := exec.Submit(context.Background(), "participant-1", JobFunc(func(context.Context) error {
			if atomic.AddInt32(&running, 1) > 1 {
				atomic.AddInt32(&overlaps, 1)
			}
			time.Sleep(100 * time.Microsecond)
			atomic.AddInt32(&running, -1)
			return nil
		}))
		require.NoError(t, err)
	}
	exec.Stop()

	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

func TestExecutor_BlockedKeyDoesNotDelayOthers(t *testing.T) {
	exec := New(Config{})

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, exec.Submit(context.Background(), "1", JobFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	})))
	<-started

	handled := make(chan string, 16)
	for _, key := range []string{"9", "17", "25", "2"} {
		k := key
		require.NoError(t, exec.Submit(context.Background(), k, JobFunc(func(context.Context) error {
			handled <- k
			return nil
		})))
	}

	got := map[string]bool{}
	for len(got) < 4 {
		select {
		case k := <-handled:
			got[k] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("other keys not handled while key 1 is blocked, got %v", got)
		}
	}

	close(release)
	exec.Stop()
}

func TestExecutor_WorkerExitsWhenDrained(t *testing.T) {
	exec := New(Config{})
	defer exec.Stop()

	done := make(chan struct{})
	require.NoError(t, exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(done)
		return nil
	})))
	<-done

	assert.Eventually(t, func() bool { return exec.ActiveKeys() == 0 }, time.Second, 5*time.Millisecond)

	ran := make(chan struct{})
	require.NoError(t, exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(ran)
		return nil
	})))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("a drained key must get a new worker")
	}
}

func TestExecutor_QueueFull(t *testing.T) {
	exec := New(Config{QueueSize: 1})
	defer exec.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(started)
		<-release
		return nil
	})))
	<-started

	require.NoError(t, exec.Submit(context.Background(), "k", JobFunc(noop)))
	err := exec.Submit(context.Background(), "k", JobFunc(noop))

	var full *QueueFullError
	require.ErrorAs(t, err, &full)
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, "k", full.Key)
	assert.Equal(t, 1, full.Capacity)

	// A full key does not affect other keys.
	assert.NoError(t, exec.Submit(context.Background(), "other", JobFunc(noop)))
	close(release)
}

func TestExecutor_SubmitAfterStop(t *testing.T) {
	exec := New(Config{})
	exec.Stop()
	exec.Stop()

	err := exec.Submit(context.Background(), "k", JobFunc(noop))
	assert.ErrorIs(t, err, ErrExecutorClosed)
}

func TestExecutor_SubmitWithCancelledContext(t *testing.T) {
	exec := New(Config{})
	defer exec.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, exec.Submit(ctx, "k", JobFunc(noop)), context.Canceled)
	assert.Zero(t, exec.ActiveKeys())
}

func TestExecutor_StopDrainsQueuedJobs(t *testing.T) {
	exec := New(Config{QueueSize: 32})

	var ran int32
	for i := 0; i < 20; i++ {
		require.NoError(t, exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})))
	}
	exec.Stop()

	assert.Equal(t, int32(20), atomic.LoadInt32(&ran))
	assert.Zero(t, exec.ActiveKeys())
}

func TestExecutor_ErrorsAndPanicsReachHandler(t *testing.T) {
	var (
		mu   sync.Mutex
		errs []error
		keys []string
	)
	exec := New(Config{ErrorHandler: func(key string, err error) {
		mu.Lock()
		defer mu.Unlock()
		keys = append(keys, key)
		errs = append(errs, err)
	}})

	boom := errors.New("boom")
	require.NoError(t, exec.Submit(context.Background(), "a", JobFunc(func(context.Context) error { return boom })))
	require.NoError(t, exec.Submit(context.Background(), "a", JobFunc(func(context.Context) error { panic("kaboom") })))

	var ranAfterPanic atomic.Bool
	require.NoError(t, exec.Submit(context.Background(), "a", JobFunc(func(context.Context) error {
		ranAfterPanic.Store(true)
		return nil
	})))
	exec.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], boom)
	assert.Contains(t, errs[1].Error(), "kaboom")
	assert.Equal(t, []string{"a", "a"}, keys)
	assert.True(t, ranAfterPanic.Load(), "worker must survive a panicking job")
}

func TestExecutor_CancelledJobIsSkipped(t *testing.T) {
	var handled atomic.Value
	exec := New(Config{ErrorHandler: func(_ string, err error) { handled.Store(err) }})

	release := make(chan struct{})
	require.NoError(t, exec.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		<-release
		return nil
	})))

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	require.NoError(t, exec.Submit(ctx, "k", JobFunc(func(context.Context) error {
		ran.Store(true)
		return nil
	})))
	cancel()
	close(release)
	exec.Stop()

	assert.False(t, ran.Load())
	assert.ErrorIs(t, handled.Load().(error), context.Canceled)
}
