package daemon

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"openhackathon/internal/api"
)

// Pinger is anything that can issue a GET against the hackathon API.
type Pinger interface {
	Get(ctx context.Context, path string, out any) error
}

// ProbeResult is the outcome of the latest API reachability check.
type ProbeResult struct {
	Reachable bool      `json:"reachable"`
	CheckedAt time.Time `json:"checkedAt,omitzero"`
	Error     string    `json:"error,omitempty"`
}

// Probe remembers whether the hackathon API answered the last check. Any HTTP answer,
// error statuses included, counts as reachable.
type Probe struct {
	mu     sync.RWMutex
	result ProbeResult
}

func (p *Probe) Result() ProbeResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result
}

func (p *Probe) check(ctx context.Context, client Pinger, now time.Time) ProbeResult {
	result := ProbeResult{Reachable: true, CheckedAt: now}

	var responseErr *api.ResponseError
	if err := client.Get(ctx, "", nil); err != nil && !errors.As(err, &responseErr) {
		result = ProbeResult{Reachable: false, CheckedAt: now, Error: err.Error()}
	}

	p.mu.Lock()
	p.result = result
	p.mu.Unlock()
	return result
}

// APIProbeTask checks the API every interval until ctx is done.
func APIProbeTask(client Pinger, probe *Probe, interval time.Duration, logger *slog.Logger) DaemonFunc {
	return func(ctx context.Context, name string) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			result := probe.check(checkCtx, client, time.Now())
			cancel()
			if !result.Reachable && ctx.Err() == nil {
				logger.Warn("Hackathon API unreachable", "daemon", name, "error", result.Error)
			}

			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	}
}
