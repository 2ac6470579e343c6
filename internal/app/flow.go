package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/media"
	"github.com/sufield/storyline/internal/ports"
	"github.com/sufield/storyline/internal/story"
)

// Uploader publishes drafts. *upload.Pipeline implements it.
type Uploader interface {
	Upload(ctx context.Context, d *story.Draft, onProgress domain.ProgressFunc) (domain.StoryID, error)
}

// FlowConfig wires a Flow. Camera and Gallery are optional; the matching
// capture helpers fail when they are missing.
type FlowConfig struct {
	Camera     *media.Camera
	Gallery    *media.Gallery
	Uploader   Uploader
	CanvasSize domain.Size
	Logger     logrus.FieldLogger
}

// Flow is one story authoring session. It owns the stage machine and at most
// one live draft.
type Flow struct {
	camera   *media.Camera
	gallery  *media.Gallery
	uploader Uploader
	size     domain.Size
	log      logrus.FieldLogger

	mu     sync.Mutex
	stage  domain.Stage
	draft  *story.Draft
	cancel context.CancelFunc
	closed bool
}

// NewFlow starts a session on the camera stage.
func NewFlow(cfg FlowConfig) (*Flow, error) {
	if cfg.Uploader == nil {
		return nil, errors.New("flow: uploader is required")
	}
	if !cfg.CanvasSize.Valid() {
		return nil, fmt.Errorf("flow: %w", domain.ErrInvalidCanvas)
	}
	return &Flow{
		camera:   cfg.Camera,
		gallery:  cfg.Gallery,
		uploader: cfg.Uploader,
		size:     cfg.CanvasSize,
		log:      logging.OrDiscard(cfg.Logger).WithField("component", "flow"),
		stage:    domain.InitialStage,
	}, nil
}

// Stage returns the current stage.
func (f *Flow) Stage() domain.Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// ShowGallery switches from the camera to the library picker.
func (f *Flow) ShowGallery() error {
	return f.toggle(domain.StageGallery)
}

// ShowCamera switches from the library picker to the camera.
func (f *Flow) ShowCamera() error {
	return f.toggle(domain.StageCamera)
}

func (f *Flow) toggle(to domain.Stage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return domain.ErrFlowClosed
	}
	if f.stage == to {
		return nil
	}
	if !f.stage.IsCapture() {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, f.stage, to)
	}
	f.setStage(to)
	return nil
}

// Capture acquires from the camera and opens the editor with the result.
func (f *Flow) Capture(ctx context.Context) error {
	if f.camera == nil {
		return fmt.Errorf("%w: no camera configured", domain.ErrAcquisitionFailure)
	}
	return f.Acquire(ctx, f.camera)
}

// PickFromGallery selects a listed library item and opens the editor.
func (f *Flow) PickFromGallery(ctx context.Context, item ports.LibraryItem) error {
	if f.gallery == nil {
		return fmt.Errorf("%w: no gallery configured", domain.ErrAcquisitionFailure)
	}
	return f.Acquire(ctx, f.gallery.Selection(item))
}

// Acquire runs src and, on success, opens the editor. Failures leave the
// stage unchanged so the user can retry.
func (f *Flow) Acquire(ctx context.Context, src media.Source) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return domain.ErrFlowClosed
	}
	if !f.stage.IsCapture() {
		stage := f.stage
		f.mu.Unlock()
		return fmt.Errorf("%w: acquire from %s", domain.ErrInvalidTransition, stage)
	}
	f.mu.Unlock()

	asset, err := src.Acquire(ctx)
	if err != nil {
		f.log.WithError(err).Info("acquisition failed")
		return err
	}
	return f.SelectAsset(asset)
}

// SelectAsset opens the editor around asset. An asset without a uri is an
// acquisition failure and the stage does not change.
func (f *Flow) SelectAsset(asset *domain.CaptureAsset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return domain.ErrFlowClosed
	}
	if !asset.IsValid() {
		return fmt.Errorf("%w: asset has no uri", domain.ErrAcquisitionFailure)
	}
	if !domain.CanTransition(f.stage, domain.StageEditor) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, f.stage, domain.StageEditor)
	}

	d, err := story.New(asset, f.size)
	if err != nil {
		return err
	}
	f.draft = d
	f.log.WithFields(logrus.Fields{
		"draft_id": d.ID(),
		"kind":     asset.Kind(),
		"origin":   asset.Origin(),
	}).Info("draft created")
	f.setStage(domain.StageEditor)
	return nil
}

// Draft returns a snapshot of the live draft.
func (f *Flow) Draft() (domain.StoryDraft, bool) {
	f.mu.Lock()
	d := f.draft
	f.mu.Unlock()
	if d == nil {
		return domain.StoryDraft{}, false
	}
	return d.Snapshot(), true
}

// editable returns the draft if it can be edited right now.
func (f *Flow) editable() (*story.Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, domain.ErrFlowClosed
	}
	if f.draft == nil {
		return nil, fmt.Errorf("%w: no draft in %s", domain.ErrInvalidTransition, f.stage)
	}
	if f.draft.Uploading() {
		return nil, domain.ErrUploadInFlight
	}
	return f.draft, nil
}

// AddText places a text overlay. Blank text is a silent no-op: ok is false
// and err is nil.
func (f *Flow) AddText(text string, style domain.TextStyle, color string) (domain.OverlayID, bool, error) {
	d, err := f.editable()
	if err != nil {
		return "", false, err
	}
	id, ok := d.Canvas().AddText(text, style, color)
	return id, ok, nil
}

// AddSticker places a sticker overlay.
func (f *Flow) AddSticker(glyph string) (domain.OverlayID, bool, error) {
	d, err := f.editable()
	if err != nil {
		return "", false, err
	}
	id, ok := d.Canvas().AddSticker(glyph)
	return id, ok, nil
}

// Drag moves an overlay by delta as one complete gesture and returns the
// committed, clamped position.
func (f *Flow) Drag(id domain.OverlayID, delta domain.Point) (domain.Point, error) {
	d, err := f.editable()
	if err != nil {
		return domain.Point{}, err
	}
	c := d.Canvas()
	if err := c.BeginDrag(id); err != nil {
		return domain.Point{}, err
	}
	if err := c.UpdateDrag(id, delta); err != nil {
		return domain.Point{}, err
	}
	return c.EndDrag(id)
}

// RemoveOverlay deletes an overlay. Unknown ids are ignored.
func (f *Flow) RemoveOverlay(id domain.OverlayID) error {
	d, err := f.editable()
	if err != nil {
		return err
	}
	d.Canvas().Remove(id)
	return nil
}

// SetCaption replaces the caption.
func (f *Flow) SetCaption(caption string) error {
	d, err := f.editable()
	if err != nil {
		return err
	}
	d.SetCaption(caption)
	return nil
}

// Upload publishes the live draft. On success the flow closes and releases
// the camera. On failure the draft stays in the editor for a retry.
func (f *Flow) Upload(ctx context.Context, onProgress domain.ProgressFunc) (domain.StoryID, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return "", domain.ErrFlowClosed
	}
	d := f.draft
	if d == nil {
		f.mu.Unlock()
		return "", domain.NewUploadError(domain.ErrInvalidDraft, "no draft to upload", nil)
	}
	uctx, cancel := context.WithCancel(ctx)
	owner := f.cancel == nil
	if owner {
		f.cancel = cancel
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		if owner {
			f.cancel = nil
		}
		f.mu.Unlock()
		cancel()
	}()

	id, err := f.uploader.Upload(uctx, d, onProgress)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	published := f.draft == d && !f.closed
	if published {
		f.draft = nil
		f.closed = true
		f.setStage(domain.StageClosed)
	}
	f.mu.Unlock()
	if published {
		f.releaseCamera()
	}
	return id, nil
}

// CloseEditor discards the draft, cancels its upload if one is running and
// returns to the camera.
func (f *Flow) CloseEditor() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return domain.ErrFlowClosed
	}
	if f.stage != domain.StageEditor {
		return fmt.Errorf("%w: close editor from %s", domain.ErrInvalidTransition, f.stage)
	}
	f.discardLocked()
	f.setStage(domain.StageCamera)
	return nil
}

// CloseFlow tears the session down from any stage: the upload is canceled,
// the draft discarded and the camera released. Calling it again is a no-op.
func (f *Flow) CloseFlow() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.discardLocked()
	f.closed = true
	f.setStage(domain.StageClosed)
	f.mu.Unlock()

	return f.releaseCamera()
}

// Closed reports whether the session has ended.
func (f *Flow) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Flow) discardLocked() {
	if f.cancel != nil {
		f.cancel()
	}
	if f.draft != nil {
		f.draft.Discard()
		f.log.WithField("draft_id", f.draft.ID()).Info("draft discarded")
		f.draft = nil
	}
}

func (f *Flow) releaseCamera() error {
	if f.camera == nil {
		return nil
	}
	if err := f.camera.Release(); err != nil {
		f.log.WithError(err).Warn("camera release failed")
		return fmt.Errorf("release camera: %w", err)
	}
	return nil
}

func (f *Flow) setStage(to domain.Stage) {
	f.log.WithFields(logrus.Fields{"from": f.stage, "to": to}).Debug("stage transition")
	f.stage = to
}

// SnapshotData implements debug.Introspector.
func (f *Flow) SnapshotData(context.Context) debug.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := debug.Snapshot{Stage: string(f.stage)}
	if f.draft != nil {
		snap.DraftID = string(f.draft.ID())
		snap.AssetKind = string(f.draft.Asset().Kind())
		snap.Overlays = f.draft.Canvas().Len()
		snap.Uploading = f.draft.Uploading()
	}
	return snap
}

var (
	_ ports.StoryFlow    = (*Flow)(nil)
	_ debug.Introspector = (*Flow)(nil)
)
