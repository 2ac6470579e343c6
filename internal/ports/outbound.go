package ports

import (
	"context"
	"time"

	"github.com/sufield/storyline/internal/domain"
)

// CaptureDevice is the camera/recorder primitive.
//
// Implementations are not required to be safe for overlapping captures; the
// media source serializes calls with its single-flight guard.
//
// Error Contract:
//   - RequestPermission returns (false, nil) on denial; errors are reserved for
//     failures to ask at all
//   - CapturePhoto and Record may return an empty uri; callers must validate
//   - Record returns ErrDeviceUnavailable if the device was released, even
//     when the release lands while it is recording
//   - Record returns the recording when ctx is canceled with cause
//     ErrRecordingStopped, including before the recording was armed; any other
//     cancellation returns ctx.Err()
//   - StopRecording returns domain.ErrNotRecording if nothing is recording
type CaptureDevice interface {
	// RequestPermission asks for camera access. Safe to call repeatedly.
	RequestPermission(ctx context.Context) (bool, error)

	// CapturePhoto takes a single photo and returns its uri.
	CapturePhoto(ctx context.Context, filterTag string) (string, error)

	// Record starts a recording and blocks until it ends, either at
	// maxDuration (enforced by the device) or after StopRecording.
	Record(ctx context.Context, maxDuration time.Duration, filterTag string) (string, error)

	// StopRecording ends the current recording early.
	StopRecording(ctx context.Context) error

	// Release frees the hardware. Further captures fail.
	Release() error
}

// MediaLibrary is the device photo library.
//
// Error Contract:
// - RequestPermission returns (false, nil) on denial
// - ListAssets returns an empty slice past the last page
// - ListAssets returns ErrLibraryClosed after the library is closed
type MediaLibrary interface {
	RequestPermission(ctx context.Context) (bool, error)

	// ListAssets returns one zero-based page. With newestFirst set, items are
	// ordered by modification time descending.
	ListAssets(ctx context.Context, page, pageSize int, newestFirst bool) ([]LibraryItem, error)
}

// MediaOpener resolves an asset uri to readable content for upload.
//
// Error Contract:
// - Returns ErrMediaNotFound if the uri points nowhere
// - Returns ErrUnsupportedScheme if the scheme is not handled
type MediaOpener interface {
	Open(ctx context.Context, uri string) (*MediaFile, error)
}

// StoryEndpoint publishes a composed story.
//
// onSent reports request body bytes written so far and the total body size.
// It may be nil and is called from the transport goroutine.
//
// Error Contract:
// - Returns ErrTransport when no response was received
// - Returns ErrEndpointRejected on non-2xx status
// - Returns ErrMalformedResponse when the body is not JSON or has no story id
type StoryEndpoint interface {
	Publish(ctx context.Context, sub *Submission, onSent func(sent, total int64)) (domain.StoryID, error)
}

// RefreshNotifier is the "story list changed" signal. It is invoked once per
// successful upload and must not block.
type RefreshNotifier interface {
	StoryListChanged()
}

// RefreshFunc adapts a function to RefreshNotifier.
type RefreshFunc func()

// StoryListChanged calls f.
func (f RefreshFunc) StoryListChanged() { f() }
