package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// PoolConfig configures a bounded-concurrency fetch pool.
type PoolConfig struct {
	// Permits is the maximum number of in-flight fetches (design defaults:
	// 10 for terrain tiles, 12 for road sub-tile pages — spec.md §5).
	Permits int
	Logger  *slog.Logger
}

// DefaultTerrainPoolConfig returns the design-default terrain fetch permit
// count.
func DefaultTerrainPoolConfig() PoolConfig { return PoolConfig{Permits: 10, Logger: slog.Default()} }

// DefaultRoadPoolConfig returns the design-default road fetch permit count.
func DefaultRoadPoolConfig() PoolConfig { return PoolConfig{Permits: 12, Logger: slog.Default()} }

// Pool bounds the number of concurrent fetch operations, mirroring the
// teacher's datasource.FetchQueue (bounded workers, atomic counters,
// sync.Map in-flight tracking) generalised from tile fetches to arbitrary
// fetch-and-return-a-value work.
type Pool struct {
	permits      chan struct{}
	cfg          PoolConfig
	inFlight     sync.Map // map[string]time.Time
	completed    atomic.Int64
	failed       atomic.Int64
}

// NewPool creates a pool with the configured permit count (minimum 1).
func NewPool(cfg PoolConfig) *Pool {
	if cfg.Permits < 1 {
		cfg.Permits = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Pool{permits: make(chan struct{}, cfg.Permits), cfg: cfg}
}

// Do runs fn under a permit, tracking it under label for Status(). It
// blocks until a permit is free or ctx is cancelled.
func (p *Pool) Do(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	select {
	case p.permits <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.permits }()

	p.inFlight.Store(label, time.Now())
	defer p.inFlight.Delete(label)

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	log := p.cfg.Logger.With("label", label, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		p.failed.Add(1)
		log.Error("fetch failed", "error", err)
		return err
	}
	p.completed.Add(1)
	log.Debug("fetch completed")
	return nil
}

// Status reports the pool's current counters.
type Status struct {
	Completed int64
	Failed    int64
	InFlight  []string
}

// Status returns a snapshot of the pool's counters.
func (p *Pool) Status() Status {
	var inFlight []string
	p.inFlight.Range(func(key, _ any) bool {
		inFlight = append(inFlight, key.(string))
		return true
	})
	return Status{Completed: p.completed.Load(), Failed: p.failed.Load(), InFlight: inFlight}
}

// RetryingDo calls fn up to maxAttempts times in total (at least once),
// doubling the wait before each retry starting from baseDelay,
// matching spec.md §5/§7 ("bounded attempts... exponential backoff").
func RetryingDo(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("exhausted %d attempts: %w", maxAttempts, lastErr)
}
