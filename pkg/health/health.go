// Package health implements liveness and readiness probes for the API server.
//
// Probes run on a shared background ticker. A probe flips to down only after
// failing several times in a row, so a single slow database ping does not
// bounce the pod out of the load balancer.
package health

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

// CheckFunc probes one dependency. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// failures in a row before a probe is reported down.
const failureThreshold = 3

type probe struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	mu       sync.Mutex
	failures int
	lastErr  error
}

func (p *probe) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := p.fn(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.failures++
		p.lastErr = err
		return
	}
	p.failures = 0
	p.lastErr = nil
}

// down reports whether the probe has crossed the failure threshold, along
// with its most recent error.
func (p *probe) down() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures >= failureThreshold, p.lastErr
}

// Service runs registered probes and serves /livez and /readyz.
type Service struct {
	ready atomic.Bool

	mu        sync.Mutex
	liveness  []*probe
	readiness []*probe
	stop      context.CancelFunc
}

func New() *Service {
	return &Service{}
}

// Liveness registers a probe on the /livez endpoint. Liveness failures mean
// the process itself is wedged and should be restarted.
func (s *Service) Liveness(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, &probe{name: name, timeout: timeout, fn: fn})
}

// Readiness registers a probe on the /readyz endpoint. Readiness failures
// mean a dependency is unavailable and traffic should be routed elsewhere.
func (s *Service) Readiness(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, &probe{name: name, timeout: timeout, fn: fn})
}

// Start launches the probe loop. Register all probes before calling Start.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.stop = cancel
	probes := append(append([]*probe(nil), s.liveness...), s.readiness...)
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			for _, p := range probes {
				p.run(ctx)
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the probe loop. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// SetReady flips the manual readiness gate. It starts false; Run sets it true
// once wiring completes and back to false when shutdown begins, so the load
// balancer drains the pod before connections are closed.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// HandleLive serves the /livez endpoint.
func (s *Service) HandleLive(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	probes := append([]*probe(nil), s.liveness...)
	s.mu.Unlock()

	writeStatus(w, collect(probes))
}

// HandleReady serves the /readyz endpoint. It reports unavailable until
// SetReady(true) has been called, regardless of probe state.
func (s *Service) HandleReady(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	probes := append([]*probe(nil), s.readiness...)
	s.mu.Unlock()

	failed := collect(probes)
	if !s.ready.Load() {
		failed["_readiness"] = "service is not ready"
	}
	writeStatus(w, failed)
}

func collect(probes []*probe) map[string]string {
	failed := make(map[string]string)
	for _, p := range probes {
		if down, err := p.down(); down {
			msg := "check is unhealthy"
			if err != nil {
				msg = err.Error()
			}
			failed[p.name] = msg
		}
	}
	return failed
}

func writeStatus(w http.ResponseWriter, failed map[string]string) {
	status := http.StatusOK

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		if len(failed) == 0 {
			e.Field("status", func(e *jx.Encoder) { e.Str("ok") })
			return
		}
		status = http.StatusServiceUnavailable
		e.Field("status", func(e *jx.Encoder) { e.Str("unhealthy") })
		e.Field("checks", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				for name, msg := range failed {
					e.Field(name, func(e *jx.Encoder) { e.Str(msg) })
				}
			})
		})
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
