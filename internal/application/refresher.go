package application

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Refresher keeps the published room statuses fresh without user action: a
// fixed-interval tick recomputes everything, and callers can additionally
// poke it after data changes. Both paths run the same idempotent
// recomputation, so overlapping triggers are harmless.
type Refresher struct {
	status   *StatusService
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	kick     chan struct{}
}

// NewRefresher constructs a refresher around the status service. Interval
// defaults to one minute when non-positive.
func NewRefresher(status *StatusService, interval time.Duration, now func() time.Time, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = time.Minute
	}
	if now == nil {
		now = time.Now
	}
	return &Refresher{
		status:   status,
		interval: interval,
		now:      now,
		logger:   defaultLogger(logger),
		kick:     make(chan struct{}, 1),
	}
}

// Invalidate requests an immediate recomputation, coalescing with any pending
// request. Called after bookings, check-ins or locks change.
func (r *Refresher) Invalidate() {
	if r == nil {
		return
	}
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Run blocks until the context is cancelled, recomputing on every tick and on
// every Invalidate.
func (r *Refresher) Run(ctx context.Context) {
	if r == nil || r.status == nil {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		case <-r.kick:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if err := r.status.RefreshAll(ctx, r.now()); err != nil && !errors.Is(err, ErrStaleSnapshot) {
		r.logger.ErrorContext(ctx, "refresh failed", "service", "Refresher", "error", err, "error_kind", ErrorKind(err))
	}
}
