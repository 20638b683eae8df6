package timer

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the stopwatch increment applied on every tick.
const DefaultInterval = 100 * time.Millisecond

// Ticker receives periodic increments.
type Ticker interface {
	Tick(d time.Duration)
}

// Driver feeds fixed increments to a Ticker on a wall-clock ticker. It
// holds no stopwatch state of its own.
type Driver struct {
	log      *zap.Logger
	interval time.Duration
	target   Ticker
	done     chan struct{}
}

// NewDriver creates a Driver. A non-positive interval selects DefaultInterval.
func NewDriver(log *zap.Logger, interval time.Duration, target Ticker) *Driver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Driver{
		log:      log,
		interval: interval,
		target:   target,
		done:     make(chan struct{}),
	}
}

// Start runs the driver in a goroutine until ctx is cancelled.
func (d *Driver) Start(ctx context.Context) {
	d.log.Debug("Starting timer driver", zap.Duration("interval", d.interval))
	go func() {
		defer close(d.done)

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				d.log.Debug("Timer driver stopped")
				return
			case <-ticker.C:
				d.target.Tick(d.interval)
			}
		}
	}()
}

// Done is closed once the driver goroutine has exited.
func (d *Driver) Done() <-chan struct{} {
	return d.done
}
