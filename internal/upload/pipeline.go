// Package upload turns a draft into a published story.
//
// One Upload call is one attempt: it reports progress from 0% (preparing)
// to 100% (finalizing), publishes the media with its caption, filter and,
// when the canvas holds overlays, the overlay manifest, and records the
// outcome on the draft. Failed drafts stay intact so the caller can retry;
// every retry starts again at 0%.
package upload

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/bg"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/metrics"
	"github.com/sufield/storyline/internal/ports"
	"github.com/sufield/storyline/internal/story"
)

// DefaultProgressInterval is the minimum gap between two sending updates.
const DefaultProgressInterval = 100 * time.Millisecond

// User-facing failure reasons.
const (
	ReasonNoMedia          = "draft has no media"
	ReasonDiscarded        = "draft was discarded"
	ReasonAlreadyPublished = "story already published"
	ReasonInFlight         = "an upload is already in progress"
	ReasonMediaUnavailable = "media could not be read"
	ReasonBadCanvas        = "overlays could not be serialized"
	ReasonCanceled         = "upload canceled"
	ReasonRejected         = "server rejected the story"
	ReasonBadResponse      = "unexpected server response"
	ReasonNetwork          = "network unavailable"
)

// Config wires a Pipeline.
type Config struct {
	Endpoint ports.StoryEndpoint
	Opener   ports.MediaOpener

	// Notifier receives the story-list refresh signal. Optional.
	Notifier ports.RefreshNotifier
	// Runner dispatches the refresh signal. Defaults to bg.Async.
	Runner bg.Runner

	// ProgressInterval throttles sending updates. Zero means
	// DefaultProgressInterval; negative disables throttling.
	ProgressInterval time.Duration
	Logger           logrus.FieldLogger
	Clock            func() time.Time
}

// Pipeline uploads drafts. It is safe for concurrent use; each draft admits
// one upload at a time.
type Pipeline struct {
	endpoint ports.StoryEndpoint
	opener   ports.MediaOpener
	notifier ports.RefreshNotifier
	runner   bg.Runner
	interval time.Duration
	log      logrus.FieldLogger
	now      func() time.Time
}

// New validates cfg and builds a Pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Endpoint == nil {
		return nil, errors.New("upload: endpoint is required")
	}
	if cfg.Opener == nil {
		return nil, errors.New("upload: media opener is required")
	}
	p := &Pipeline{
		endpoint: cfg.Endpoint,
		opener:   cfg.Opener,
		notifier: cfg.Notifier,
		runner:   cfg.Runner,
		interval: cfg.ProgressInterval,
		log:      logging.OrDiscard(cfg.Logger).WithField("component", "upload"),
		now:      cfg.Clock,
	}
	if p.runner == nil {
		p.runner = bg.Async{}
	}
	if p.interval == 0 {
		p.interval = DefaultProgressInterval
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// Upload publishes d. onProgress may be nil; it is called synchronously and
// must not block.
//
// Errors are always *domain.UploadError:
//   - ErrInvalidDraft: no asset, discarded, already published, unreadable
//     media. No request is sent.
//   - ErrUploadInFlight: another Upload of d is running.
//   - ErrNetworkFailure: the request failed; d keeps its content and is
//     marked failed with the reason.
func (p *Pipeline) Upload(ctx context.Context, d *story.Draft, onProgress domain.ProgressFunc) (domain.StoryID, error) {
	if d == nil || !d.Asset().IsValid() {
		return "", p.reject(domain.ErrInvalidDraft, ReasonNoMedia)
	}
	if d.Discarded() {
		return "", p.reject(domain.ErrInvalidDraft, ReasonDiscarded)
	}
	if status, _ := d.Status(); status == domain.UploadDone {
		return "", p.reject(domain.ErrInvalidDraft, ReasonAlreadyPublished)
	}
	if !d.TryBeginUpload() {
		return "", p.reject(domain.ErrUploadInFlight, ReasonInFlight)
	}

	asset := d.Asset()
	overlays := d.Canvas().Len()
	log := p.log.WithFields(logrus.Fields{
		"draft_id": d.ID(),
		"kind":     asset.Kind(),
		"origin":   asset.Origin(),
		"overlays": overlays,
	})
	finish := metrics.UploadStarted()

	progress := newReporter(onProgress, p.interval)
	defer progress.close()

	fail := func(kind error, reason string, cause error) (domain.StoryID, error) {
		// Closed before the slot is released so a retry never sees this
		// attempt's progress.
		progress.close()
		d.FinishUpload(domain.UploadFailed, reason)
		finish("failure", overlays)
		log.WithError(cause).WithField("reason", reason).Warn("upload failed")
		return "", domain.NewUploadError(kind, reason, cause)
	}

	progress.reset()
	log.WithField("phase", domain.PhasePreparing).Debug("upload phase")

	var manifest []byte
	if overlays > 0 {
		m, err := d.Canvas().Serialize(d.Canvas().Size())
		if err != nil {
			return fail(domain.ErrInvalidDraft, ReasonBadCanvas, err)
		}
		if manifest, err = m.Marshal(); err != nil {
			return fail(domain.ErrInvalidDraft, ReasonBadCanvas, err)
		}
	}
	progress.phase(domain.PhasePreparing, 0.5)

	media, err := p.opener.Open(ctx, asset.URI())
	if err != nil {
		return fail(domain.ErrInvalidDraft, ReasonMediaUnavailable, err)
	}
	defer media.Close()

	sub := &ports.Submission{
		Media:       media,
		Caption:     d.Caption(),
		Filter:      asset.FilterTag(),
		ContentType: asset.Kind(),
		Timestamp:   p.now(),
		Source:      asset.Origin(),
		OverlayData: manifest,
	}

	progress.phase(domain.PhaseSending, 0)
	log.WithField("phase", domain.PhaseSending).Debug("upload phase")

	id, err := p.endpoint.Publish(ctx, sub, progress.bytes)
	if err != nil {
		return fail(domain.ErrNetworkFailure, failureReason(ctx, err), err)
	}

	progress.phase(domain.PhaseFinalizing, 0)
	log.WithField("phase", domain.PhaseFinalizing).Debug("upload phase")

	d.FinishUpload(domain.UploadDone, "")
	finish("success", overlays)
	progress.phase(domain.PhaseFinalizing, 1)
	log.WithField("story_id", id).Info("story published")

	if p.notifier != nil {
		p.runner.Do(p.notifier.StoryListChanged)
	}
	return id, nil
}

func (p *Pipeline) reject(kind error, reason string) error {
	metrics.RecordUploadRejected(rejectLabel(kind))
	p.log.WithField("reason", reason).Debug("upload refused")
	return domain.NewUploadError(kind, reason, nil)
}

func rejectLabel(kind error) string {
	if errors.Is(kind, domain.ErrUploadInFlight) {
		return "rejected_in_flight"
	}
	return "rejected_invalid"
}

func failureReason(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil, errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, ports.ErrEndpointRejected):
		return ReasonRejected
	case errors.Is(err, ports.ErrMalformedResponse):
		return ReasonBadResponse
	default:
		return ReasonNetwork
	}
}
