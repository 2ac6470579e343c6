package bg

import "sync"

// Group is an asynchronous Runner that can wait for everything it started.
// The application waits on it during shutdown so no refresh signal is lost.
type Group struct {
	wg sync.WaitGroup
}

// Do executes fn in a new goroutine tracked by the group.
func (g *Group) Do(fn func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn()
	}()
}

// Wait blocks until every function started by Do has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}
