// Package media acquires CaptureAssets from the camera or the photo library.
//
// Both sources gate every acquisition on a permission request. A granted
// permission is cached; a denial is not, so the next call asks again.
// Device output is validated here: an empty or malformed uri becomes
// domain.ErrAcquisitionFailure and never reaches the flow as an asset.
package media

import (
	"context"

	"github.com/sufield/storyline/internal/domain"
)

// Source produces one asset per call.
type Source interface {
	Acquire(ctx context.Context) (*domain.CaptureAsset, error)
}
