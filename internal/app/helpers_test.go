package app_test

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/adapters/outbound/inmemory"
	"github.com/sufield/storyline/internal/app"
	"github.com/sufield/storyline/internal/bg"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/media"
	"github.com/sufield/storyline/internal/ports"
	"github.com/sufield/storyline/internal/upload"
)

var phoneSize = domain.Size{Width: 390, Height: 844}

// stubEndpoint answers publishes with fn, or "story-1" when fn is nil.
type stubEndpoint struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, sub *ports.Submission) (domain.StoryID, error)
}

func (s *stubEndpoint) Publish(ctx context.Context, sub *ports.Submission, _ func(sent, total int64)) (domain.StoryID, error) {
	_, _ = io.Copy(io.Discard, sub.Media)
	s.mu.Lock()
	s.calls++
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		return fn(ctx, sub)
	}
	return "story-1", nil
}

func (s *stubEndpoint) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fixture struct {
	flow     *app.Flow
	store    *inmemory.MediaStore
	device   *inmemory.Camera
	library  *inmemory.Library
	endpoint *stubEndpoint
	refresh  *inmemory.RefreshRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fx := &fixture{
		store:    inmemory.NewMediaStore(),
		library:  inmemory.NewLibrary(),
		endpoint: &stubEndpoint{},
		refresh:  inmemory.NewRefreshRecorder(),
	}
	fx.device = inmemory.NewCamera(fx.store)

	pipeline, err := upload.New(upload.Config{
		Endpoint:         fx.endpoint,
		Opener:           fx.store,
		Notifier:         fx.refresh,
		Runner:           bg.Sync{},
		ProgressInterval: -1,
	})
	require.NoError(t, err)

	fx.flow, err = app.NewFlow(app.FlowConfig{
		Camera:     media.NewCamera(fx.device, media.CameraConfig{}),
		Gallery:    media.NewGallery(fx.library, 10, nil),
		Uploader:   pipeline,
		CanvasSize: phoneSize,
	})
	require.NoError(t, err)
	return fx
}

// editing captures a photo and leaves the flow in the editor.
func (fx *fixture) editing(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.flow.Capture(context.Background()))
	require.Equal(t, domain.StageEditor, fx.flow.Stage())
}
