package ports

import (
	"context"

	"github.com/sufield/storyline/internal/domain"
)

// StoryFlow is the authoring session driven by user interfaces.
// It is implemented by app.Flow.
//
// Error Contract:
//   - SelectAsset returns domain.ErrAcquisitionFailure for a nil or empty asset
//   - Stage changes return domain.ErrInvalidTransition when not allowed
//   - Upload returns *domain.UploadError
//   - every operation returns domain.ErrFlowClosed once the flow is closed,
//     except CloseFlow which is idempotent
//   - editing while an upload runs returns domain.ErrUploadInFlight
type StoryFlow interface {
	Stage() domain.Stage
	ShowGallery() error
	ShowCamera() error
	SelectAsset(asset *domain.CaptureAsset) error
	Draft() (domain.StoryDraft, bool)

	AddText(text string, style domain.TextStyle, color string) (domain.OverlayID, bool, error)
	AddSticker(glyph string) (domain.OverlayID, bool, error)
	Drag(id domain.OverlayID, delta domain.Point) (domain.Point, error)
	RemoveOverlay(id domain.OverlayID) error
	SetCaption(caption string) error

	Upload(ctx context.Context, onProgress domain.ProgressFunc) (domain.StoryID, error)
	CloseEditor() error
	CloseFlow() error
}

// StoryRepository stores stories accepted by the receiving endpoint.
//
// Error Contract:
// - Save never fails for the in-memory implementation
type StoryRepository interface {
	Save(ctx context.Context, story PublishedStory) error
	List(ctx context.Context) ([]PublishedStory, error)
}
