package upload

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sufield/storyline/internal/domain"
)

// reporter forwards progress to the caller. Percent never decreases within
// one upload. Sending updates are throttled; phase changes always go out.
// After close nothing is forwarded, so late transport callbacks of a finished
// attempt cannot reach the caller during a retry.
type reporter struct {
	fn      domain.ProgressFunc
	limiter *rate.Limiter

	mu     sync.Mutex
	last   domain.UploadProgress
	sent   bool
	closed bool
}

func newReporter(fn domain.ProgressFunc, interval time.Duration) *reporter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &reporter{fn: fn, limiter: rate.NewLimiter(limit, 1)}
}

// reset reports 0% preparing. Called once at the start of every attempt.
func (r *reporter) reset() {
	r.emit(domain.UploadProgress{Percent: 0, Phase: domain.PhasePreparing}, true)
}

func (r *reporter) phase(p domain.UploadPhase, fraction float64) {
	r.emit(domain.ProgressAt(p, fraction), true)
}

// bytes reports transfer progress within the sending phase.
func (r *reporter) bytes(sent, total int64) {
	if total <= 0 {
		return
	}
	r.emit(domain.ProgressAt(domain.PhaseSending, float64(sent)/float64(total)), false)
}

// close stops forwarding. It waits for an in-progress callback to return.
func (r *reporter) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *reporter) emit(p domain.UploadProgress, force bool) {
	if r.fn == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.sent {
		if p.Percent < r.last.Percent {
			return
		}
		if p == r.last {
			return
		}
		if !force && p.Phase == r.last.Phase && !r.limiter.Allow() {
			return
		}
	}
	r.last = p
	r.sent = true
	r.fn(p)
}
