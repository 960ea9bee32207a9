// Package worker provides a generic bounded worker pool. Statistics are
// always tracked with atomics; Prometheus metrics are opt-in via an
// injected registerer.
package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Pool processes work items of type T across a fixed set of goroutines
// reading from a bounded queue.
type Pool[T any] struct {
	workers   int
	queueSize int
	processor func(context.Context, T) error

	workChan chan T
	wg       sync.WaitGroup

	// mu is held in read mode across every channel send and in write mode
	// by Drain around the close, so a blocked submit can never race the
	// queue closing underneath it.
	mu      sync.RWMutex
	started bool
	stopped bool

	submitted atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64

	metrics *metrics
}

type metrics struct {
	queueDepth prometheus.Gauge
	submitted  prometheus.Counter
	processed  prometheus.Counter
	failed     prometheus.Counter
	duration   prometheus.Histogram
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Submitted int64
	Processed int64
	Failed    int64
	Dropped   int64
	QueueLen  int
}

// Option configures a Pool.
type Option[T any] func(*Pool[T])

// WithMetrics registers pool metrics under the given name prefix.
func WithMetrics[T any](reg prometheus.Registerer, prefix string) Option[T] {
	return func(p *Pool[T]) {
		p.metrics = &metrics{
			queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: prefix + "_queue_depth",
				Help: "Current work queue depth.",
			}),
			submitted: prometheus.NewCounter(prometheus.CounterOpts{
				Name: prefix + "_submitted_total",
				Help: "Work items submitted.",
			}),
			processed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: prefix + "_processed_total",
				Help: "Work items processed.",
			}),
			failed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: prefix + "_failed_total",
				Help: "Work items whose processor returned an error.",
			}),
			duration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Name:    prefix + "_processing_duration_seconds",
				Help:    "Time spent processing work items.",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 5},
			}),
		}
		reg.MustRegister(
			p.metrics.queueDepth,
			p.metrics.submitted,
			p.metrics.processed,
			p.metrics.failed,
			p.metrics.duration,
		)
	}
}

// NewPool creates a pool of the given size. Non-positive workers or queue
// sizes fall back to defaults. The processor must not be nil.
func NewPool[T any](workers, queueSize int, processor func(context.Context, T) error, opts ...Option[T]) *Pool[T] {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 256
	}
	if processor == nil {
		panic(ErrNilProcessor)
	}

	p := &Pool[T]{
		workers:   workers,
		queueSize: queueSize,
		processor: processor,
		workChan:  make(chan T, queueSize),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Start launches the workers. The context is passed through to every
// processor invocation and cancels in-flight draining.
func (p *Pool[T]) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true

	for range p.workers {
		p.wg.Go(func() {
			p.run(ctx)
		})
	}

	return nil
}

func (p *Pool[T]) run(ctx context.Context) {
	for work := range p.workChan {
		start := time.Now()
		err := p.processor(ctx, work)

		p.processed.Add(1)
		if p.metrics != nil {
			p.metrics.processed.Inc()
			p.metrics.queueDepth.Set(float64(len(p.workChan)))
			p.metrics.duration.Observe(time.Since(start).Seconds())
		}

		if err != nil {
			p.failed.Add(1)
			if p.metrics != nil {
				p.metrics.failed.Inc()
			}
		}
	}
}

// Submit enqueues work without blocking. Returns ErrQueueFull when the
// queue has no space; the dropped counter records the rejection.
func (p *Pool[T]) Submit(work T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.submitStateLocked(); err != nil {
		return err
	}

	select {
	case p.workChan <- work:
		p.recordSubmit()
		return nil
	default:
		p.dropped.Add(1)
		return ErrQueueFull
	}
}

// SubmitWait enqueues work, blocking until queue space frees up or the
// context is cancelled. Batch producers use it to guarantee no records are
// dropped under backpressure.
func (p *Pool[T]) SubmitWait(ctx context.Context, work T) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.submitStateLocked(); err != nil {
		return err
	}

	select {
	case p.workChan <- work:
		p.recordSubmit()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool[T]) submitStateLocked() error {
	if !p.started {
		return ErrNotStarted
	}
	if p.stopped {
		return ErrStopped
	}
	return nil
}

func (p *Pool[T]) recordSubmit() {
	p.submitted.Add(1)
	if p.metrics != nil {
		p.metrics.submitted.Inc()
		p.metrics.queueDepth.Set(float64(len(p.workChan)))
	}
}

// Drain closes the queue, waits until every enqueued item has been
// processed, and stops the workers. Returns the context error if
// cancellation interrupts the wait.
func (p *Pool[T]) Drain(ctx context.Context) error {
	p.mu.Lock()
	if !p.started || p.stopped {
		p.mu.Unlock()
		return ErrNotStarted
	}
	p.stopped = true
	close(p.workChan)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop drains the pool with a timeout instead of a context, for callers in
// shutdown paths. Returns ErrStopTimeout when workers do not finish.
func (p *Pool[T]) Stop(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := p.Drain(ctx); err != nil {
		if ctx.Err() != nil {
			return ErrStopTimeout
		}
		return err
	}
	return nil
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Processed: p.processed.Load(),
		Failed:    p.failed.Load(),
		Dropped:   p.dropped.Load(),
		QueueLen:  len(p.workChan),
	}
}
