package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/metrics"
	"github.com/sufield/storyline/internal/ports"
)

// CaptureMode selects what Acquire does on a Camera.
type CaptureMode string

const (
	ModePhoto CaptureMode = "photo"
	ModeVideo CaptureMode = "video"
)

// ParseCaptureMode accepts "photo" or "video".
func ParseCaptureMode(s string) (CaptureMode, error) {
	switch CaptureMode(s) {
	case ModePhoto, ModeVideo:
		return CaptureMode(s), nil
	default:
		return "", fmt.Errorf("unknown capture mode %q", s)
	}
}

// CameraConfig tunes a Camera.
type CameraConfig struct {
	// MaxRecording is handed to the device as the hard recording cap.
	MaxRecording time.Duration
	// TickInterval is the cadence of the elapsed-time counter.
	TickInterval time.Duration
	// OnTick, if set, receives the elapsed recording time on every tick.
	// It runs on the ticker goroutine and must not block.
	OnTick func(elapsed time.Duration)

	Mode   CaptureMode
	Filter string
	Logger logrus.FieldLogger
}

// Camera is the camera variant of Source. At most one capture is in flight;
// a second request is rejected with domain.ErrCaptureInFlight without
// disturbing the first.
type Camera struct {
	device ports.CaptureDevice
	cfg    CameraConfig
	log    logrus.FieldLogger
	perm   permissionGate

	busy      atomic.Bool
	recording atomic.Bool
	elapsed   atomic.Int64
	ticking   atomic.Bool

	mu       sync.Mutex
	mode     CaptureMode
	filter   string
	released bool
	active   *recording
}

// recording is the stop handle of the running RecordVideo call.
type recording struct {
	cancel     context.CancelCauseFunc
	stopTicker func()
}

// end cancels the device context with ErrRecordingStopped and stops the
// elapsed ticker. It is safe to call more than once.
func (r *recording) end() {
	r.cancel(ports.ErrRecordingStopped)
	r.stopTicker()
}

// NewCamera wraps device. Zero config values fall back to a 15s cap, a one
// second tick and photo mode.
func NewCamera(device ports.CaptureDevice, cfg CameraConfig) *Camera {
	if cfg.MaxRecording <= 0 {
		cfg.MaxRecording = 15 * time.Second
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Mode == "" {
		cfg.Mode = ModePhoto
	}
	c := &Camera{
		device: device,
		cfg:    cfg,
		log:    logging.OrDiscard(cfg.Logger).WithField("source", domain.OriginCamera),
		mode:   cfg.Mode,
		filter: cfg.Filter,
	}
	c.perm.request = device.RequestPermission
	return c
}

// RequestPermission asks for camera access. It is idempotent once granted.
func (c *Camera) RequestPermission(ctx context.Context) (bool, error) {
	ok, err := c.perm.ensure(ctx)
	c.log.WithField("granted", ok).Debug("camera permission")
	return ok, err
}

// SetMode switches between photo and video.
func (c *Camera) SetMode(m CaptureMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
}

// Mode returns the current capture mode.
func (c *Camera) Mode() CaptureMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetFilter selects the opaque filter tag stamped on the next capture.
func (c *Camera) SetFilter(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = tag
}

// Filter returns the current filter tag.
func (c *Camera) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Busy reports whether a capture is in flight.
func (c *Camera) Busy() bool { return c.busy.Load() }

// Recording reports whether a video recording is running.
func (c *Camera) Recording() bool { return c.recording.Load() }

// Ticking reports whether the elapsed-time ticker is alive.
func (c *Camera) Ticking() bool { return c.ticking.Load() }

// Elapsed returns the elapsed time of the current or last recording as
// counted by the ticker. It is display feedback only.
func (c *Camera) Elapsed() time.Duration {
	return time.Duration(c.elapsed.Load())
}

// Acquire captures according to the current mode.
func (c *Camera) Acquire(ctx context.Context) (*domain.CaptureAsset, error) {
	if c.Mode() == ModeVideo {
		return c.RecordVideo(ctx)
	}
	return c.CapturePhoto(ctx)
}

// CapturePhoto performs one photo capture.
//
// Returns domain.ErrCaptureInFlight if another capture is pending,
// domain.ErrPermissionDenied on denial and domain.ErrAcquisitionFailure when
// the device fails or returns an unusable uri.
func (c *Camera) CapturePhoto(ctx context.Context) (*domain.CaptureAsset, error) {
	return c.capture(ctx, domain.MediaKindPhoto, func(ctx context.Context, filter string) (string, error) {
		return c.device.CapturePhoto(ctx, filter)
	})
}

// RecordVideo records until the device's hard cap or StopRecording and
// returns the resulting asset. The elapsed ticker is stopped before it returns.
//
// A stop or release that arrives before the device has armed the recording
// still ends it: the device context carries ports.ErrRecordingStopped.
func (c *Camera) RecordVideo(ctx context.Context) (*domain.CaptureAsset, error) {
	return c.capture(ctx, domain.MediaKindVideo, func(ctx context.Context, filter string) (string, error) {
		recCtx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)

		c.mu.Lock()
		if c.released {
			c.mu.Unlock()
			return "", ports.ErrDeviceUnavailable
		}
		rec := &recording{cancel: cancel, stopTicker: c.startTicker()}
		c.active = rec
		c.recording.Store(true)
		c.mu.Unlock()

		defer func() {
			rec.stopTicker()
			c.mu.Lock()
			if c.active == rec {
				c.active = nil
			}
			c.recording.Store(false)
			c.mu.Unlock()
		}()
		return c.device.Record(recCtx, c.cfg.MaxRecording, filter)
	})
}

// StopRecording ends the current recording early. RecordVideo then returns
// with whatever the device produced. The ticker stops before StopRecording
// returns.
func (c *Camera) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	rec := c.active
	c.mu.Unlock()
	if rec == nil {
		return domain.ErrNotRecording
	}
	rec.end()
	// The device may not have armed yet; the canceled context covers that.
	if err := c.device.StopRecording(ctx); err != nil && !errors.Is(err, domain.ErrNotRecording) {
		return err
	}
	return nil
}

func (c *Camera) capture(ctx context.Context, kind domain.MediaKind, shoot func(context.Context, string) (string, error)) (*domain.CaptureAsset, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, domain.ErrCaptureInFlight
	}
	defer c.busy.Store(false)

	c.mu.Lock()
	released, filter := c.released, c.filter
	c.mu.Unlock()
	if released {
		return nil, fmt.Errorf("%w: %w", domain.ErrAcquisitionFailure, ports.ErrDeviceUnavailable)
	}

	log := c.log.WithField("kind", kind)

	granted, err := c.perm.ensure(ctx)
	if err != nil {
		metrics.RecordAcquisition(string(domain.OriginCamera), string(kind), "error")
		return nil, fmt.Errorf("%w: %w", domain.ErrAcquisitionFailure, err)
	}
	if !granted {
		log.Info("camera permission denied")
		metrics.RecordAcquisition(string(domain.OriginCamera), string(kind), "denied")
		return nil, domain.ErrPermissionDenied
	}

	uri, err := shoot(ctx, filter)
	if err == nil {
		c.mu.Lock()
		if c.released {
			err = ports.ErrDeviceUnavailable
		}
		c.mu.Unlock()
	}
	if err != nil {
		log.WithError(err).Warn("capture failed")
		metrics.RecordAcquisition(string(domain.OriginCamera), string(kind), "error")
		return nil, fmt.Errorf("%w: %w", domain.ErrAcquisitionFailure, err)
	}

	asset, err := domain.NewCaptureAsset(uri, kind, domain.OriginCamera, filter)
	if err != nil {
		log.WithError(err).Warn("device returned unusable asset")
		metrics.RecordAcquisition(string(domain.OriginCamera), string(kind), "invalid")
		return nil, err
	}
	log.WithFields(logrus.Fields{"uri": asset.URI(), "filter": filter}).Info("asset acquired")
	metrics.RecordAcquisition(string(domain.OriginCamera), string(kind), "success")
	return asset, nil
}

// startTicker runs the elapsed counter and returns a stop func that blocks
// until the ticker goroutine has exited.
func (c *Camera) startTicker() (stop func()) {
	c.elapsed.Store(0)
	c.ticking.Store(true)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer c.ticking.Store(false)

		t := time.NewTicker(c.cfg.TickInterval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				e := time.Duration(c.elapsed.Add(int64(c.cfg.TickInterval)))
				if c.cfg.OnTick != nil {
					c.cfg.OnTick(e)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

// Release frees the device. Later captures fail and the permission must be
// requested again. A running recording is ended first.
func (c *Camera) Release() error {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return nil
	}
	c.released = true
	rec := c.active
	c.mu.Unlock()

	if rec != nil {
		rec.end()
		if err := c.device.StopRecording(context.Background()); err != nil {
			c.log.WithError(err).Debug("stop recording on release")
		}
	}
	c.perm.reset()
	c.log.Debug("camera released")
	return c.device.Release()
}
