package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/app"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/ports"
	"github.com/sufield/storyline/internal/upload"
)

func TestNewFlow_Validation(t *testing.T) {
	t.Parallel()

	_, err := app.NewFlow(app.FlowConfig{CanvasSize: phoneSize})
	assert.Error(t, err)

	_, err = app.NewFlow(app.FlowConfig{Uploader: &upload.Pipeline{}, CanvasSize: domain.Size{}})
	assert.ErrorIs(t, err, domain.ErrInvalidCanvas)
}

func TestFlow_StartsOnCameraAndToggles(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	assert.Equal(t, domain.StageCamera, fx.flow.Stage())

	require.NoError(t, fx.flow.ShowGallery())
	assert.Equal(t, domain.StageGallery, fx.flow.Stage())
	require.NoError(t, fx.flow.ShowGallery())

	require.NoError(t, fx.flow.ShowCamera())
	assert.Equal(t, domain.StageCamera, fx.flow.Stage())
}

func TestFlow_CaptureOpensEditor(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.editing(t)

	d, ok := fx.flow.Draft()
	require.True(t, ok)
	assert.Equal(t, domain.OriginCamera, d.Asset.Origin())
	assert.Equal(t, domain.MediaKindPhoto, d.Asset.Kind())
	assert.Equal(t, domain.UploadIdle, d.Status)

	assert.ErrorIs(t, fx.flow.ShowGallery(), domain.ErrInvalidTransition)
	assert.ErrorIs(t, fx.flow.Capture(context.Background()), domain.ErrInvalidTransition)
}

func TestFlow_PickFromGallery(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	uri := fx.store.Put("lib/beach.jpg", []byte("jpeg"))
	item := ports.LibraryItem{URI: uri, Kind: domain.MediaKindPhoto, ModifiedAt: time.Now()}
	fx.library.Add(item)

	require.NoError(t, fx.flow.ShowGallery())
	require.NoError(t, fx.flow.PickFromGallery(context.Background(), item))

	d, ok := fx.flow.Draft()
	require.True(t, ok)
	assert.Equal(t, uri, d.Asset.URI())
	assert.Equal(t, domain.OriginGallery, d.Asset.Origin())
}

func TestFlow_PermissionDeniedKeepsStage(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.device.DenyPermission()

	err := fx.flow.Capture(context.Background())
	require.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Equal(t, domain.StageCamera, fx.flow.Stage())
	_, ok := fx.flow.Draft()
	assert.False(t, ok)

	fx.device.AllowPermission()
	require.NoError(t, fx.flow.Capture(context.Background()))
	assert.Equal(t, domain.StageEditor, fx.flow.Stage())
}

func TestFlow_EditingRequiresDraft(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	_, _, err := fx.flow.AddText("hi", domain.TextStyleBold, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, _, err = fx.flow.AddSticker("⭐")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, fx.flow.SetCaption("x"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, fx.flow.RemoveOverlay("a"), domain.ErrInvalidTransition)
	assert.ErrorIs(t, fx.flow.CloseEditor(), domain.ErrInvalidTransition)

	_, err = fx.flow.Upload(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDraft)
	assert.Zero(t, fx.endpoint.Calls())
}

func TestFlow_OverlayEditing(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.editing(t)

	id, ok, err := fx.flow.AddText("Hello", domain.TextStyleClassic, "#FFFFFF")
	require.NoError(t, err)
	require.True(t, ok)

	pos, err := fx.flow.Drag(id, domain.Point{X: 40, Y: -30})
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 235, Y: 251}, pos)

	sticker, ok, err := fx.flow.AddSticker("🔥")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, id, sticker)

	require.NoError(t, fx.flow.RemoveOverlay(sticker))
	require.NoError(t, fx.flow.RemoveOverlay(sticker))

	require.NoError(t, fx.flow.SetCaption("  caption "))
	d, _ := fx.flow.Draft()
	assert.Equal(t, "caption", d.Caption)
	require.Len(t, d.Overlays, 1)
	assert.Equal(t, id, d.Overlays[0].ID())

	_, err = fx.flow.Drag("missing", domain.Point{X: 1})
	assert.ErrorIs(t, err, domain.ErrOverlayNotFound)
}

func TestFlow_CloseEditorDiscardsDraft(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.editing(t)
	_, _, err := fx.flow.AddSticker("⭐")
	require.NoError(t, err)

	require.NoError(t, fx.flow.CloseEditor())
	assert.Equal(t, domain.StageCamera, fx.flow.Stage())
	_, ok := fx.flow.Draft()
	assert.False(t, ok)

	_, err = fx.flow.Upload(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidDraft)
	assert.Zero(t, fx.endpoint.Calls())
}

func TestFlow_UploadSuccessClosesFlow(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.editing(t)

	var last domain.UploadProgress
	id, err := fx.flow.Upload(context.Background(), func(p domain.UploadProgress) { last = p })
	require.NoError(t, err)
	assert.Equal(t, domain.StoryID("story-1"), id)
	assert.Equal(t, 100, last.Percent)

	assert.Equal(t, domain.StageClosed, fx.flow.Stage())
	assert.True(t, fx.flow.Closed())
	assert.True(t, fx.device.Released())
	assert.Equal(t, 1, fx.refresh.Count())

	_, ok := fx.flow.Draft()
	assert.False(t, ok)
	assert.ErrorIs(t, fx.flow.ShowGallery(), domain.ErrFlowClosed)
	assert.ErrorIs(t, fx.flow.SelectAsset(nil), domain.ErrFlowClosed)
	assert.NoError(t, fx.flow.CloseFlow())
}

func TestFlow_UploadFailureKeepsDraft(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.editing(t)
	require.NoError(t, fx.flow.SetCaption("keep me"))

	fx.endpoint.fn = func(context.Context, *ports.Submission) (domain.StoryID, error) {
		return "", ports.ErrTransport
	}
	_, err := fx.flow.Upload(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNetworkFailure)

	assert.Equal(t, domain.StageEditor, fx.flow.Stage())
	d, ok := fx.flow.Draft()
	require.True(t, ok)
	assert.Equal(t, "keep me", d.Caption)
	assert.Equal(t, domain.UploadFailed, d.Status)
	assert.Equal(t, upload.ReasonNetwork, d.FailureReason)

	fx.endpoint.mu.Lock()
	fx.endpoint.fn = nil
	fx.endpoint.mu.Unlock()

	_, err = fx.flow.Upload(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StageClosed, fx.flow.Stage())
}

func TestFlow_CloseEditorCancelsUpload(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	fx.editing(t)

	entered := make(chan struct{})
	fx.endpoint.fn = func(ctx context.Context, _ *ports.Submission) (domain.StoryID, error) {
		close(entered)
		<-ctx.Done()
		return "", ctx.Err()
	}

	errc := make(chan error, 1)
	go func() {
		_, err := fx.flow.Upload(context.Background(), nil)
		errc <- err
	}()
	<-entered

	_, _, err := fx.flow.AddSticker("⭐")
	assert.ErrorIs(t, err, domain.ErrUploadInFlight)

	require.NoError(t, fx.flow.CloseEditor())
	err = <-errc
	var uerr *domain.UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, upload.ReasonCanceled, uerr.Reason)
	assert.Equal(t, domain.StageCamera, fx.flow.Stage())
	assert.Zero(t, fx.refresh.Count())
}

func TestFlow_CloseFlowReleasesCamera(t *testing.T) {
	t.Parallel()

	for _, stage := range []domain.Stage{domain.StageCamera, domain.StageGallery, domain.StageEditor} {
		t.Run(string(stage), func(t *testing.T) {
			t.Parallel()

			fx := newFixture(t)
			switch stage {
			case domain.StageGallery:
				require.NoError(t, fx.flow.ShowGallery())
			case domain.StageEditor:
				fx.editing(t)
			}

			require.NoError(t, fx.flow.CloseFlow())
			assert.Equal(t, domain.StageClosed, fx.flow.Stage())
			assert.True(t, fx.device.Released())
			_, ok := fx.flow.Draft()
			assert.False(t, ok)
			assert.ErrorIs(t, fx.flow.ShowCamera(), domain.ErrFlowClosed)
		})
	}
}

func TestFlow_SnapshotData(t *testing.T) {
	t.Parallel()

	fx := newFixture(t)
	snap := fx.flow.SnapshotData(context.Background())
	assert.Equal(t, "camera", snap.Stage)
	assert.Empty(t, snap.DraftID)

	fx.editing(t)
	_, _, err := fx.flow.AddSticker("⭐")
	require.NoError(t, err)

	snap = fx.flow.SnapshotData(context.Background())
	assert.Equal(t, "editor", snap.Stage)
	assert.NotEmpty(t, snap.DraftID)
	assert.Equal(t, "photo", snap.AssetKind)
	assert.Equal(t, 1, snap.Overlays)
	assert.False(t, snap.Uploading)
}
