package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiome-tools/opbmap/pkg/worker"
)

func TestNewPoolDefaults(t *testing.T) {
	p := worker.NewPool(0, 0, func(context.Context, int) error { return nil })
	require.NotNil(t, p)
}

func TestNewPoolNilProcessorPanics(t *testing.T) {
	assert.Panics(t, func() {
		worker.NewPool[int](1, 1, nil)
	})
}

func TestSubmitBeforeStart(t *testing.T) {
	p := worker.NewPool(1, 1, func(context.Context, int) error { return nil })

	err := p.Submit(1)
	assert.ErrorIs(t, err, worker.ErrNotStarted)
}

func TestStartTwice(t *testing.T) {
	p := worker.NewPool(1, 1, func(context.Context, int) error { return nil })

	require.NoError(t, p.Start(context.Background()))
	assert.ErrorIs(t, p.Start(context.Background()), worker.ErrAlreadyStarted)

	p.Stop(time.Second)
}

func TestProcessesAllItems(t *testing.T) {
	var processed atomic.Int64
	p := worker.NewPool(4, 32, func(_ context.Context, n int) error {
		processed.Add(int64(n))
		return nil
	})

	require.NoError(t, p.Start(context.Background()))

	total := 0
	for i := 1; i <= 100; i++ {
		require.NoError(t, p.SubmitWait(context.Background(), i))
		total += i
	}

	require.NoError(t, p.Drain(context.Background()))
	assert.Equal(t, int64(total), processed.Load())

	stats := p.Stats()
	assert.Equal(t, int64(100), stats.Submitted)
	assert.Equal(t, int64(100), stats.Processed)
	assert.Equal(t, int64(0), stats.Failed)
	assert.Equal(t, int64(0), stats.Dropped)
}

func TestFailedCounter(t *testing.T) {
	boom := errors.New("boom")
	p := worker.NewPool(2, 8, func(_ context.Context, n int) error {
		if n%2 == 0 {
			return boom
		}
		return nil
	})

	require.NoError(t, p.Start(context.Background()))
	for i := range 10 {
		require.NoError(t, p.SubmitWait(context.Background(), i))
	}
	require.NoError(t, p.Drain(context.Background()))

	stats := p.Stats()
	assert.Equal(t, int64(10), stats.Processed)
	assert.Equal(t, int64(5), stats.Failed)
}

func TestSubmitQueueFull(t *testing.T) {
	release := make(chan struct{})
	p := worker.NewPool(1, 1, func(_ context.Context, n int) error {
		<-release
		return nil
	})

	require.NoError(t, p.Start(context.Background()))

	// One item occupies the worker, one fills the queue; whichever comes
	// next must be rejected rather than block.
	require.NoError(t, p.Submit(1))

	var full bool
	for range 3 {
		if err := p.Submit(2); errors.Is(err, worker.ErrQueueFull) {
			full = true
			break
		}
	}
	assert.True(t, full, "expected ErrQueueFull once worker and queue are busy")
	assert.GreaterOrEqual(t, p.Stats().Dropped, int64(1))

	close(release)
	require.NoError(t, p.Drain(context.Background()))
}

func TestSubmitWaitBlocksUntilSpace(t *testing.T) {
	release := make(chan struct{})
	p := worker.NewPool(1, 1, func(_ context.Context, n int) error {
		<-release
		return nil
	})

	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.SubmitWait(context.Background(), 1))
	require.NoError(t, p.SubmitWait(context.Background(), 2))

	submitted := make(chan error, 1)
	go func() {
		submitted <- p.SubmitWait(context.Background(), 3)
	}()

	select {
	case err := <-submitted:
		t.Fatalf("SubmitWait returned early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-submitted)
	require.NoError(t, p.Drain(context.Background()))
}

func TestSubmitWaitCancelled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	p := worker.NewPool(1, 1, func(_ context.Context, n int) error {
		<-release
		return nil
	})

	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.SubmitWait(context.Background(), 1))
	require.NoError(t, p.SubmitWait(context.Background(), 2))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.SubmitWait(ctx, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDrainDuringBlockedSubmitWait(t *testing.T) {
	release := make(chan struct{})
	var processed atomic.Int64
	p := worker.NewPool(1, 1, func(_ context.Context, n int) error {
		<-release
		processed.Add(1)
		return nil
	})

	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.SubmitWait(context.Background(), 1))
	require.NoError(t, p.SubmitWait(context.Background(), 2))

	// Park a submit on the full queue, then drain concurrently. The
	// drain must wait for the in-flight send instead of closing the
	// queue underneath it and panicking.
	submitted := make(chan error, 1)
	go func() {
		submitted <- p.SubmitWait(context.Background(), 3)
	}()

	drained := make(chan error, 1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		drained <- p.Drain(context.Background())
	}()

	time.Sleep(40 * time.Millisecond)
	close(release)

	require.NoError(t, <-submitted)
	require.NoError(t, <-drained)
	assert.Equal(t, int64(3), processed.Load())
	assert.ErrorIs(t, p.Submit(4), worker.ErrStopped)
}

func TestSubmitAfterDrain(t *testing.T) {
	p := worker.NewPool(1, 1, func(context.Context, int) error { return nil })

	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Drain(context.Background()))

	assert.ErrorIs(t, p.Submit(1), worker.ErrStopped)
}

func TestStopTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	p := worker.NewPool(1, 4, func(_ context.Context, n int) error {
		<-release
		return nil
	})

	require.NoError(t, p.Start(context.Background()))
	require.NoError(t, p.Submit(1))

	err := p.Stop(20 * time.Millisecond)
	assert.ErrorIs(t, err, worker.ErrStopTimeout)
}

func TestWithMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	p := worker.NewPool(2, 8,
		func(context.Context, int) error { return nil },
		worker.WithMetrics[int](reg, "test_pool"),
	)

	require.NoError(t, p.Start(context.Background()))
	for i := range 5 {
		require.NoError(t, p.SubmitWait(context.Background(), i))
	}
	require.NoError(t, p.Drain(context.Background()))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	assert.True(t, names["test_pool_submitted_total"])
	assert.True(t, names["test_pool_processed_total"])
	assert.True(t, names["test_pool_failed_total"])
}
