package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/ports"
)

// Camera is a simulated capture device.
type Camera struct {
	store *MediaStore

	mu       sync.Mutex
	granted  bool
	released bool
	stop     chan struct{}
	photos   int
	recorded int
}

// NewCamera creates a camera that writes into store. The user grants
// permission unless DenyPermission is called or a fault is injected.
func NewCamera(store *MediaStore) *Camera {
	return &Camera{store: store, granted: true}
}

// DenyPermission makes every permission request deny until AllowPermission.
func (c *Camera) DenyPermission() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.granted = false
}

// AllowPermission reverts DenyPermission.
func (c *Camera) AllowPermission() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.granted = true
}

// RequestPermission implements ports.CaptureDevice.
func (c *Camera) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if debug.Faults.ShouldDenyPermission() {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.granted, nil
}

// CapturePhoto implements ports.CaptureDevice.
func (c *Camera) CapturePhoto(ctx context.Context, filterTag string) (string, error) {
	if err := c.preflight(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	c.photos++
	c.mu.Unlock()
	return c.emit("photo", "jpg", filterTag), nil
}

// Record implements ports.CaptureDevice. It returns when maxDuration
// elapses, StopRecording is called or ctx is done.
func (c *Camera) Record(ctx context.Context, maxDuration time.Duration, filterTag string) (string, error) {
	if err := c.preflight(ctx); err != nil {
		return "", err
	}

	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return "", ports.ErrDeviceUnavailable
	}
	if c.stop != nil {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: already recording", ports.ErrDeviceUnavailable)
	}
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.stop == stop {
			c.stop = nil
		}
		c.recorded++
		c.mu.Unlock()
	}()

	limit := time.NewTimer(maxDuration)
	defer limit.Stop()
	select {
	case <-limit.C:
	case <-stop:
	case <-ctx.Done():
		if !stopRequested(ctx) {
			return "", ctx.Err()
		}
	}

	c.mu.Lock()
	released := c.released
	c.mu.Unlock()
	if released {
		return "", ports.ErrDeviceUnavailable
	}
	return c.emit("video", "mp4", filterTag), nil
}

// stopRequested reports whether ctx was canceled by an early stop.
func stopRequested(ctx context.Context) bool {
	return ctx.Err() != nil && errors.Is(context.Cause(ctx), ports.ErrRecordingStopped)
}

// StopRecording implements ports.CaptureDevice.
func (c *Camera) StopRecording(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return domain.ErrNotRecording
	}
	close(c.stop)
	c.stop = nil
	return nil
}

// Release implements ports.CaptureDevice.
func (c *Camera) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	return nil
}

// Released reports whether Release was called.
func (c *Camera) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// Counts returns the number of photos taken and recordings finished.
func (c *Camera) Counts() (photos, recordings int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.photos, c.recorded
}

func (c *Camera) preflight(ctx context.Context) error {
	c.mu.Lock()
	released := c.released
	c.mu.Unlock()
	if released {
		return ports.ErrDeviceUnavailable
	}
	if d := debug.Faults.GetAndClearDelay(); d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
		}
	}
	if stopRequested(ctx) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if debug.Faults.ShouldFailCapture() {
		return fmt.Errorf("%w: injected capture failure", ports.ErrDeviceUnavailable)
	}
	return nil
}

// emit stores synthetic content and returns its uri, or "" when the empty
// uri fault fires.
func (c *Camera) emit(prefix, ext, filterTag string) string {
	if debug.Faults.ShouldEmptyCaptureURI() {
		return ""
	}
	body := fmt.Sprintf("%s filter=%s at=%s", prefix, filterTag, time.Now().UTC().Format(time.RFC3339Nano))
	return c.store.Put(fmt.Sprintf("capture/%s.%s", uuid.NewString(), ext), []byte(body))
}

var _ ports.CaptureDevice = (*Camera)(nil)
