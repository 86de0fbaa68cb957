package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PollFunc is invoked on every poll tick.
type PollFunc func(context.Context) error

// Poller runs a function on a fixed interval until stopped. It replaces
// ad-hoc timers with an explicit handle whose lifetime matches its owner:
// Stop cancels the in-flight tick and waits for the loop to exit.
type Poller struct {
	name     string
	interval time.Duration
	fn       PollFunc
	logger   *zap.Logger

	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	started bool
}

// NewPoller builds a poller. A non-positive interval defaults to 30s.
func NewPoller(name string, interval time.Duration, fn PollFunc, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{name: name, interval: interval, fn: fn, logger: logger}
}

// Start launches the polling loop. Safe to call once.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.started = true

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.fn(ctx); err != nil && ctx.Err() == nil {
					p.logger.Warn("poll tick failed", zap.String("poller", p.name), zap.Error(err))
				}
			}
		}
	}()
	p.logger.Sugar().Infow("poller started", "poller", p.name, "interval", p.interval)
}

// Stop cancels the loop and blocks until it has exited.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	done := p.done
	p.mu.Unlock()
	<-done
	p.logger.Sugar().Infow("poller stopped", "poller", p.name)
}
