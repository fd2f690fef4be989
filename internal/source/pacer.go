package source

import (
	"context"
	"sync"
	"time"
)

// pacer enforces a minimum delay between successive upstream calls. The
// Bitbucket API has no machine-readable rate-limit headers to react to, so
// page requests are simply spaced out.
type pacer struct {
	mu       sync.Mutex
	minDelay time.Duration
	lastCall time.Time
}

func newPacer(minDelay time.Duration) *pacer {
	return &pacer{minDelay: minDelay}
}

// Wait blocks until the minimum delay since the previous call has elapsed
// or the context is done.
func (p *pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.lastCall)
	if wait := p.minDelay - elapsed; wait > 0 {
		p.mu.Unlock()
		select {
		case <-ctx.Done():
			p.mu.Lock()
			return ctx.Err()
		case <-time.After(wait):
			p.mu.Lock()
		}
	}

	p.lastCall = time.Now()
	return nil
}
