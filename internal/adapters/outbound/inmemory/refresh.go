package inmemory

import (
	"sync"

	"github.com/sufield/storyline/internal/ports"
)

// RefreshRecorder counts story-list refresh signals.
type RefreshRecorder struct {
	mu     sync.Mutex
	count  int
	notify chan struct{}
}

// NewRefreshRecorder creates a recorder.
func NewRefreshRecorder() *RefreshRecorder {
	return &RefreshRecorder{notify: make(chan struct{}, 16)}
}

// StoryListChanged implements ports.RefreshNotifier.
func (r *RefreshRecorder) StoryListChanged() {
	r.mu.Lock()
	r.count++
	r.mu.Unlock()
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Count returns the number of signals received.
func (r *RefreshRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Signals delivers one value per signal, dropping when the buffer is full.
func (r *RefreshRecorder) Signals() <-chan struct{} {
	return r.notify
}

var _ ports.RefreshNotifier = (*RefreshRecorder)(nil)
