// Package bg decides where fire-and-forget work runs.
//
// The upload pipeline sends the story-list refresh signal through a Runner.
// Production wiring uses a Group so shutdown can wait for pending signals;
// tests and STORY_DEBUG_SINGLE_THREAD use Sync so the signal has fired by the
// time Upload returns.
package bg

// Runner runs fn now or later.
type Runner interface {
	Do(fn func())
}

// New returns Sync when singleThreaded is set and a Group otherwise.
func New(singleThreaded bool) Runner {
	if singleThreaded {
		return Sync{}
	}
	return &Group{}
}

// Sync runs fn on the caller's goroutine before Do returns.
type Sync struct{}

func (Sync) Do(fn func()) { fn() }

// Async starts fn on its own goroutine and forgets about it. Use Group when
// the caller must wait for completion.
type Async struct{}

func (Async) Do(fn func()) { go fn() }
