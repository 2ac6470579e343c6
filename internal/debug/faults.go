package debug

import (
	"fmt"
	"sync"
	"time"
)

// FaultProfile defines faults that can be injected for testing.
// All faults are one-shot (consumed after check) to ensure predictable,
// isolated test behavior.
type FaultProfile struct {
	mu sync.RWMutex

	// DenyNextPermission makes the next camera or library permission request deny (one-shot)
	DenyNextPermission bool

	// FailNextCapture makes the next photo capture or recording fail (one-shot)
	FailNextCapture bool

	// EmptyNextCaptureURI makes the next capture return an empty uri (one-shot)
	EmptyNextCaptureURI bool

	// DelayNextCaptureMillis delays the next capture (one-shot, must be >= 0)
	DelayNextCaptureMillis int

	// FailNextUpload makes the next story upload fail with a 503 (one-shot)
	FailNextUpload bool
}

// Faults is the global fault profile
var Faults = &FaultProfile{}

// SetDenyNextPermission enables/disables permission denial
func (f *FaultProfile) SetDenyNextPermission(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DenyNextPermission = enabled
}

// ShouldDenyPermission checks and consumes the permission denial flag
func (f *FaultProfile) ShouldDenyPermission() bool {
	return f.consume(&f.DenyNextPermission)
}

// SetFailNextCapture enables/disables capture failure
func (f *FaultProfile) SetFailNextCapture(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailNextCapture = enabled
}

// ShouldFailCapture checks and consumes the capture failure flag
func (f *FaultProfile) ShouldFailCapture() bool {
	return f.consume(&f.FailNextCapture)
}

// SetEmptyNextCaptureURI enables/disables empty capture uris
func (f *FaultProfile) SetEmptyNextCaptureURI(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.EmptyNextCaptureURI = enabled
}

// ShouldEmptyCaptureURI checks and consumes the empty uri flag
func (f *FaultProfile) ShouldEmptyCaptureURI() bool {
	return f.consume(&f.EmptyNextCaptureURI)
}

// SetFailNextUpload enables/disables upload failure
func (f *FaultProfile) SetFailNextUpload(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailNextUpload = enabled
}

// ShouldFailUpload checks and consumes the upload failure flag
func (f *FaultProfile) ShouldFailUpload() bool {
	return f.consume(&f.FailNextUpload)
}

// SetDelayNextCapture sets the delay for the next capture.
// Returns an error if millis is negative.
func (f *FaultProfile) SetDelayNextCapture(millis int) error {
	if millis < 0 {
		return fmt.Errorf("delay must be non-negative, got %d", millis)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DelayNextCaptureMillis = millis
	return nil
}

// GetAndClearDelay gets and clears the capture delay
func (f *FaultProfile) GetAndClearDelay() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := time.Duration(f.DelayNextCaptureMillis) * time.Millisecond
	f.DelayNextCaptureMillis = 0
	return d
}

func (f *FaultProfile) consume(flag *bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if *flag {
		*flag = false // One-shot
		return true
	}
	return false
}

// Reset clears all fault flags
func (f *FaultProfile) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DenyNextPermission = false
	f.FailNextCapture = false
	f.EmptyNextCaptureURI = false
	f.DelayNextCaptureMillis = 0
	f.FailNextUpload = false
}

// Snapshot returns the current state of all faults as a map.
// The snapshot is a point-in-time view and won't reflect subsequent changes.
func (f *FaultProfile) Snapshot() map[string]any {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return map[string]any{
		"deny_next_permission":      f.DenyNextPermission,
		"fail_next_capture":         f.FailNextCapture,
		"empty_next_capture_uri":    f.EmptyNextCaptureURI,
		"delay_next_capture_millis": f.DelayNextCaptureMillis,
		"fail_next_upload":          f.FailNextUpload,
	}
}
