package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/ports"
)

// Plan is a story composed from command-line input.
type Plan struct {
	Asset    *domain.CaptureAsset
	Caption  string
	Texts    []TextFlag
	Stickers []StickerFlag
}

// Composer drives a StoryFlow from a Plan and prints what happens. It never
// wires dependencies.
type Composer struct {
	flow ports.StoryFlow
	out  io.Writer
	log  logrus.FieldLogger
}

// New creates a Composer writing human-readable output to out.
func New(flow ports.StoryFlow, out io.Writer, logger logrus.FieldLogger) *Composer {
	if out == nil {
		out = io.Discard
	}
	return &Composer{flow: flow, out: out, log: logging.OrDiscard(logger).WithField("adapter", "cli")}
}

// Run opens the editor with plan.Asset, applies the caption and overlays and
// uploads. A nil Asset edits the draft already open in the editor, e.g. after
// a camera capture. On upload failure the flow is left in the editor so Retry
// can resubmit the same draft.
func (c *Composer) Run(ctx context.Context, plan Plan) (domain.StoryID, error) {
	if plan.Asset != nil || c.flow.Stage() != domain.StageEditor {
		if err := c.open(plan.Asset); err != nil {
			return "", err
		}
	}
	c.trace(ctx, "editor opened")

	if plan.Caption != "" {
		if err := c.flow.SetCaption(plan.Caption); err != nil {
			return "", err
		}
	}
	for _, t := range plan.Texts {
		id, ok, err := c.flow.AddText(t.Text, t.Style, t.Color)
		if err != nil {
			return "", err
		}
		if !ok {
			fmt.Fprintln(c.out, "skipped blank text overlay")
			continue
		}
		if err := c.move(id, t.Move); err != nil {
			return "", err
		}
	}
	for _, s := range plan.Stickers {
		id, ok, err := c.flow.AddSticker(s.Glyph)
		if err != nil {
			return "", err
		}
		if !ok {
			fmt.Fprintln(c.out, "skipped blank sticker")
			continue
		}
		if err := c.move(id, s.Move); err != nil {
			return "", err
		}
	}
	c.trace(ctx, "overlays placed")

	return c.Retry(ctx)
}

// Retry uploads the current draft again.
func (c *Composer) Retry(ctx context.Context) (domain.StoryID, error) {
	var last domain.UploadProgress
	started := false
	id, err := c.flow.Upload(ctx, func(p domain.UploadProgress) {
		if started && p.Phase == last.Phase && p.Percent-last.Percent < 10 && p.Percent != 100 {
			return
		}
		started = true
		last = p
		fmt.Fprintf(c.out, "  %-10s %3d%%\n", p.Phase, p.Percent)
	})
	if err != nil {
		var uerr *domain.UploadError
		if errors.As(err, &uerr) {
			fmt.Fprintf(c.out, "upload failed: %s\n", uerr.Reason)
			if uerr.Retryable() {
				fmt.Fprintln(c.out, "the draft was kept; run again to retry")
			}
		}
		c.trace(ctx, "upload failed")
		return "", err
	}
	fmt.Fprintf(c.out, "published story %s\n", id)
	c.log.WithField("story_id", id).Debug("published")
	return id, nil
}

func (c *Composer) open(asset *domain.CaptureAsset) error {
	if asset != nil && asset.Origin() == domain.OriginGallery {
		if err := c.flow.ShowGallery(); err != nil {
			return err
		}
	}
	if err := c.flow.SelectAsset(asset); err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	return nil
}

func (c *Composer) move(id domain.OverlayID, delta domain.Point) error {
	if delta == (domain.Point{}) {
		return nil
	}
	pos, err := c.flow.Drag(id, delta)
	if err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{"overlay": id, "x": pos.X, "y": pos.Y}).Debug("overlay moved")
	return nil
}

// trace logs a flow snapshot when debug mode is on.
func (c *Composer) trace(ctx context.Context, step string) {
	if !debug.Active.Enabled {
		return
	}
	in, ok := c.flow.(debug.Introspector)
	if !ok {
		return
	}
	snap := in.SnapshotData(ctx)
	debug.GetLogger().WithFields(logrus.Fields{
		"step":      step,
		"stage":     snap.Stage,
		"draft_id":  snap.DraftID,
		"overlays":  snap.Overlays,
		"uploading": snap.Uploading,
	}).Debug("flow state")
}
