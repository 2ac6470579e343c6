package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/ports"
)

// Library is a fixed in-memory photo library.
type Library struct {
	mu      sync.RWMutex
	items   []ports.LibraryItem
	granted bool
	lists   int
}

// NewLibrary creates a library over items. Permission is granted by default.
func NewLibrary(items ...ports.LibraryItem) *Library {
	return &Library{items: append([]ports.LibraryItem(nil), items...), granted: true}
}

// Add appends items.
func (l *Library) Add(items ...ports.LibraryItem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, items...)
}

// SetPermission sets the answer to future permission requests.
func (l *Library) SetPermission(granted bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.granted = granted
}

// ListCalls returns how many pages were requested.
func (l *Library) ListCalls() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lists
}

// RequestPermission implements ports.MediaLibrary.
func (l *Library) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if debug.Faults.ShouldDenyPermission() {
		return false, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.granted, nil
}

// ListAssets implements ports.MediaLibrary.
func (l *Library) ListAssets(ctx context.Context, page, pageSize int, newestFirst bool) ([]ports.LibraryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.lists++
	sorted := append([]ports.LibraryItem(nil), l.items...)
	l.mu.Unlock()

	if newestFirst {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].ModifiedAt.After(sorted[j].ModifiedAt)
		})
	}
	if page < 0 || pageSize <= 0 {
		return []ports.LibraryItem{}, nil
	}
	start := page * pageSize
	if start >= len(sorted) {
		return []ports.LibraryItem{}, nil
	}
	end := min(start+pageSize, len(sorted))
	return sorted[start:end], nil
}

var _ ports.MediaLibrary = (*Library)(nil)
