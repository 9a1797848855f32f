package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer sleeps out the remainder of each tick's frame budget, rebuilding
// its limiter whenever the target FPS changes instead of drifting against
// a stale interval.
type pacer struct {
	fps     int
	limiter *rate.Limiter
}

func newPacer(fps int) *pacer {
	p := &pacer{}
	p.setFPS(fps)
	return p
}

func (p *pacer) setFPS(fps int) {
	if fps <= 0 {
		fps = 1
	}
	if fps == p.fps && p.limiter != nil {
		return
	}
	p.fps = fps
	p.limiter = rate.NewLimiter(rate.Limit(fps), 1)
}

// wait blocks until the next tick's budget opens up, returning early if ctx
// is canceled. It reports whether the previous tick overran its budget:
// the limiter's token was already available, so no time was left to sleep.
func (p *pacer) wait(ctx context.Context) (overran bool, err error) {
	reservation := p.limiter.ReserveN(time.Now(), 1)
	if !reservation.OK() {
		return false, nil
	}
	delay := reservation.Delay()
	if delay <= 0 {
		return true, nil
	}
	select {
	case <-time.After(delay):
		return false, nil
	case <-ctx.Done():
		reservation.Cancel()
		return false, ctx.Err()
	}
}
