// Package story holds the live draft session: the one object the flow
// controller creates on entering the editor and hands by reference to the
// canvas and the upload pipeline.
package story

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/sufield/storyline/internal/assert"
	"github.com/sufield/storyline/internal/canvas"
	"github.com/sufield/storyline/internal/domain"
)

// Draft is a story being edited. It owns exactly one asset, which never
// changes, and one overlay canvas.
type Draft struct {
	id        domain.DraftID
	asset     *domain.CaptureAsset
	canvas    *canvas.Canvas
	createdAt time.Time

	uploading atomic.Bool

	mu        sync.Mutex
	caption   string
	status    domain.UploadStatus
	reason    string
	discarded bool
}

// New creates a draft around asset with an empty canvas of the given size.
// asset is stored as given; validity is checked by the flow before entering
// the editor and again by the upload pipeline.
func New(asset *domain.CaptureAsset, size domain.Size, opts ...canvas.Option) (*Draft, error) {
	c, err := canvas.New(size, opts...)
	if err != nil {
		return nil, err
	}
	return &Draft{
		id:        domain.DraftID(uuid.NewString()),
		asset:     asset,
		canvas:    c,
		createdAt: time.Now(),
		status:    domain.UploadIdle,
	}, nil
}

func (d *Draft) ID() domain.DraftID          { return d.id }
func (d *Draft) Asset() *domain.CaptureAsset { return d.asset }
func (d *Draft) Canvas() *canvas.Canvas      { return d.canvas }
func (d *Draft) CreatedAt() time.Time        { return d.createdAt }

// SetCaption stores the normalized caption.
func (d *Draft) SetCaption(caption string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.caption = domain.NormalizeCaption(caption)
}

// Caption returns the current caption.
func (d *Draft) Caption() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.caption
}

// Status returns the upload status and, when failed, the reason.
func (d *Draft) Status() (domain.UploadStatus, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status, d.reason
}

// TryBeginUpload claims the draft's single upload slot. It returns false if
// an upload is already running or the draft was discarded or published.
func (d *Draft) TryBeginUpload() bool {
	if !d.uploading.CompareAndSwap(false, true) {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.discarded || d.status == domain.UploadDone {
		d.uploading.Store(false)
		return false
	}
	d.status = domain.UploadUploading
	d.reason = ""
	return true
}

// FinishUpload releases the upload slot and records the outcome.
func (d *Draft) FinishUpload(status domain.UploadStatus, reason string) {
	assert.Invariant(status != domain.UploadUploading, "finished upload must leave the uploading state")
	d.mu.Lock()
	d.status = status
	d.reason = reason
	d.mu.Unlock()
	d.uploading.Store(false)
}

// Uploading reports whether an upload currently holds the slot.
func (d *Draft) Uploading() bool {
	return d.uploading.Load()
}

// Discard marks the draft destroyed. Later uploads are refused.
func (d *Draft) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.discarded = true
}

// Discarded reports whether Discard was called.
func (d *Draft) Discarded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.discarded
}

// Snapshot returns a point-in-time copy for serialization and display.
func (d *Draft) Snapshot() domain.StoryDraft {
	d.mu.Lock()
	caption, status, reason := d.caption, d.status, d.reason
	d.mu.Unlock()

	return domain.StoryDraft{
		ID:            d.id,
		Asset:         d.asset,
		Caption:       caption,
		Overlays:      d.canvas.Elements(),
		Status:        status,
		FailureReason: reason,
		CreatedAt:     d.createdAt,
	}
}
