package media

import (
	"context"
	"fmt"
	"sync"
)

// permissionGate serializes permission requests and remembers a grant.
// Concurrent callers wait for the in-progress request instead of prompting twice.
type permissionGate struct {
	mu      sync.Mutex
	granted bool
	request func(ctx context.Context) (bool, error)
}

func (g *permissionGate) ensure(ctx context.Context) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.granted {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ok, err := g.request(ctx)
	if err != nil {
		return false, fmt.Errorf("request permission: %w", err)
	}
	g.granted = ok
	return ok, nil
}

func (g *permissionGate) reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.granted = false
}
