package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CleanupDetached runs CleanupExpired on its own goroutine, bounded by
// timeout and independent of any request context. The returned channel is
// closed once the sweep has finished.
func CleanupDetached(svc Service, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Session cleanup panicked", "panic", r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		svc.CleanupExpired(ctx)
	}()
	return done
}

// Janitor periodically deletes expired sessions.
type Janitor struct {
	svc      Service
	interval time.Duration
	timeout  time.Duration

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewJanitor creates a Janitor sweeping every interval. It does nothing until Start.
func NewJanitor(svc Service, interval time.Duration) *Janitor {
	timeout := interval / 2
	if timeout > time.Minute || timeout <= 0 {
		timeout = time.Minute
	}
	return &Janitor{
		svc:      svc,
		interval: interval,
		timeout:  timeout,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. A non-positive interval disables it.
func (j *Janitor) Start() {
	if j.interval <= 0 {
		close(j.done)
		return
	}

	ticker := time.NewTicker(j.interval)
	go func() {
		defer close(j.done)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
				n := j.svc.CleanupExpired(ctx)
				cancel()
				if n > 0 {
					slog.Info("Janitor removed expired sessions", "deleted", n)
				}
			case <-j.stop:
				return
			}
		}
	}()
	slog.Info("Session janitor started", "interval", j.interval.String())
}

// Stop ends the sweep loop and waits for it to exit. Only valid after Start.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
	<-j.done
}
