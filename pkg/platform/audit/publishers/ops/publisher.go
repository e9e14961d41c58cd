// Package ops provides a best-effort, asynchronous audit publisher for
// maintenance runs and other operational events.
//
// Track never blocks the caller. Events are buffered and flushed by a
// background goroutine; a full buffer overwrites the oldest pending event and
// an open circuit breaker drops events until the store recovers.
package ops

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "tally/pkg/platform/audit"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = 250 * time.Millisecond
)

// Publisher buffers operations events and persists them asynchronously.
type Publisher struct {
	store         audit.Store
	logger        *slog.Logger
	metrics       *Metrics
	buffer        *ringBuffer
	breaker       *circuitBreaker
	batchSize     int
	flushInterval time.Duration
	now           func() time.Time

	wake      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

type config struct {
	capacity         int
	batchSize        int
	flushInterval    time.Duration
	breakerThreshold int
	breakerCooldown  time.Duration
	logger           *slog.Logger
	metrics          *Metrics
	now              func() time.Time
}

// Option configures the Publisher.
type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithBufferSize sets how many pending events are held before the oldest is overwritten.
func WithBufferSize(n int) Option {
	return func(c *config) { c.capacity = n }
}

func WithBatchSize(n int) Option {
	return func(c *config) { c.batchSize = n }
}

func WithFlushInterval(d time.Duration) Option {
	return func(c *config) { c.flushInterval = d }
}

// WithCircuitBreaker sets the consecutive-failure threshold and the open cooldown.
func WithCircuitBreaker(threshold int, cooldown time.Duration) Option {
	return func(c *config) {
		c.breakerThreshold = threshold
		c.breakerCooldown = cooldown
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// New creates the publisher and starts its flush goroutine. Call Close to
// drain pending events.
func New(store audit.Store, opts ...Option) *Publisher {
	cfg := config{
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.batchSize <= 0 {
		cfg.batchSize = defaultBatchSize
	}
	if cfg.flushInterval <= 0 {
		cfg.flushInterval = defaultFlushInterval
	}

	p := &Publisher{
		store:         store,
		logger:        cfg.logger,
		metrics:       cfg.metrics,
		buffer:        newRingBuffer(cfg.capacity),
		breaker:       newCircuitBreaker(cfg.breakerThreshold, cfg.breakerCooldown, cfg.now),
		batchSize:     cfg.batchSize,
		flushInterval: cfg.flushInterval,
		now:           cfg.now,
		wake:          make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Track enqueues an event. It never blocks and never fails.
func (p *Publisher) Track(event audit.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	event.Category = audit.CategoryOperations

	if p.buffer.push(event) {
		p.metrics.event(event.Action, outcomeOverwritten)
	}
	if p.buffer.len() >= p.batchSize {
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

// Pending returns the number of buffered events not yet persisted.
func (p *Publisher) Pending() int {
	return p.buffer.len()
}

// Close stops the flush goroutine after a final drain.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
	return nil
}

func (p *Publisher) run() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			p.flush()
			return
		case <-ticker.C:
			p.flush()
		case <-p.wake:
			p.flush()
		}
	}
}

func (p *Publisher) flush() {
	ctx := context.Background()
	for {
		batch := p.buffer.popBatch(p.batchSize)
		if len(batch) == 0 {
			return
		}
		for _, event := range batch {
			p.persist(ctx, event)
		}
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) {
	if !p.breaker.allow() {
		p.metrics.event(event.Action, outcomeCircuitDropped)
		return
	}
	if err := p.store.Append(ctx, event); err != nil {
		opened := p.breaker.failure()
		p.metrics.event(event.Action, outcomeFailed)
		p.metrics.circuit(opened)
		if p.logger != nil {
			p.logger.WarnContext(ctx, "ops audit persist failed",
				"action", event.Action,
				"tenant_id", event.TenantID,
				"circuit_open", opened,
				"error", err,
			)
		}
		return
	}
	p.breaker.success()
	p.metrics.event(event.Action, outcomePersisted)
	p.metrics.circuit(false)
}
