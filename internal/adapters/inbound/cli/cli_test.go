package cli_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/adapters/inbound/cli"
	"github.com/sufield/storyline/internal/adapters/outbound/inmemory"
	"github.com/sufield/storyline/internal/app"
	"github.com/sufield/storyline/internal/bg"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/ports"
	"github.com/sufield/storyline/internal/upload"
)

type captureEndpoint struct {
	fail     error
	manifest []byte
	fields   []ports.FormField
}

func (e *captureEndpoint) Publish(_ context.Context, sub *ports.Submission, _ func(int64, int64)) (domain.StoryID, error) {
	_, _ = io.Copy(io.Discard, sub.Media)
	e.fields = sub.Fields()
	e.manifest = sub.OverlayData
	if e.fail != nil {
		return "", e.fail
	}
	return "story-42", nil
}

func setup(t *testing.T, endpoint *captureEndpoint) (*app.Flow, *inmemory.MediaStore) {
	t.Helper()
	store := inmemory.NewMediaStore()
	p, err := upload.New(upload.Config{Endpoint: endpoint, Opener: store, Runner: bg.Sync{}, ProgressInterval: -1})
	require.NoError(t, err)
	flow, err := app.NewFlow(app.FlowConfig{Uploader: p, CanvasSize: domain.Size{Width: 390, Height: 844}})
	require.NoError(t, err)
	return flow, store
}

func galleryAsset(t *testing.T, store *inmemory.MediaStore) *domain.CaptureAsset {
	t.Helper()
	asset, err := domain.NewCaptureAsset(store.Put("pic.jpg", []byte("jpeg")), domain.MediaKindPhoto, domain.OriginGallery, "")
	require.NoError(t, err)
	return asset
}

func TestComposer_Run(t *testing.T) {
	t.Parallel()

	endpoint := &captureEndpoint{}
	flow, store := setup(t, endpoint)
	var out bytes.Buffer

	text, err := cli.ParseTextFlag("Hello;style=neon;move=40,-30")
	require.NoError(t, err)
	blank, err := cli.ParseTextFlag("   ")
	require.NoError(t, err)
	sticker, err := cli.ParseStickerFlag("🔥")
	require.NoError(t, err)

	id, err := cli.New(flow, &out, nil).Run(context.Background(), cli.Plan{
		Asset:    galleryAsset(t, store),
		Caption:  "day one",
		Texts:    []cli.TextFlag{text, blank},
		Stickers: []cli.StickerFlag{sticker},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StoryID("story-42"), id)
	assert.Equal(t, domain.StageClosed, flow.Stage())

	m, err := domain.ParseManifest(endpoint.manifest)
	require.NoError(t, err)
	require.Len(t, m.Elements, 2)
	assert.Equal(t, domain.Point{X: 235, Y: 251}, m.Elements[0].Position)
	assert.Equal(t, domain.TextStyleNeon, m.Elements[0].Payload.Style)

	s := out.String()
	assert.Contains(t, s, "skipped blank text overlay")
	assert.Contains(t, s, "preparing")
	assert.Contains(t, s, "100%")
	assert.Contains(t, s, "published story story-42")
}

func TestComposer_FailureKeepsDraftForRetry(t *testing.T) {
	t.Parallel()

	endpoint := &captureEndpoint{fail: ports.ErrTransport}
	flow, store := setup(t, endpoint)
	var out bytes.Buffer
	c := cli.New(flow, &out, nil)

	_, err := c.Run(context.Background(), cli.Plan{Asset: galleryAsset(t, store), Caption: "x"})
	require.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Contains(t, out.String(), "upload failed: "+upload.ReasonNetwork)
	assert.Contains(t, out.String(), "run again to retry")
	assert.Equal(t, domain.StageEditor, flow.Stage())

	endpoint.fail = nil
	id, err := c.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StoryID("story-42"), id)
}

func TestComposer_InvalidAsset(t *testing.T) {
	t.Parallel()

	flow, _ := setup(t, &captureEndpoint{})
	_, err := cli.New(flow, nil, nil).Run(context.Background(), cli.Plan{})
	assert.ErrorIs(t, err, domain.ErrAcquisitionFailure)
	assert.Equal(t, domain.StageCamera, flow.Stage())
}

func TestParseTextSpec(t *testing.T) {
	t.Parallel()

	opt, err := cli.ParseTextFlag("Hi there;style=bold;color=#FF0000;move=-5, 12.5")
	require.NoError(t, err)
	assert.Equal(t, cli.TextFlag{
		Text:  "Hi there",
		Style: domain.TextStyleBold,
		Color: "#FF0000",
		Move:  domain.Point{X: -5, Y: 12.5},
	}, opt)

	opt, err = cli.ParseTextFlag("plain")
	require.NoError(t, err)
	assert.Equal(t, domain.TextStyleClassic, opt.Style)
	assert.Zero(t, opt.Move)

	opt, err = cli.ParseTextFlag("x;style=comic")
	require.NoError(t, err)
	assert.Equal(t, domain.TextStyleClassic, opt.Style)

	for _, bad := range []string{"x;move=1", "x;move=a,b", "x;size=3", "x;nokey"} {
		_, err := cli.ParseTextFlag(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseStickerSpec(t *testing.T) {
	t.Parallel()

	opt, err := cli.ParseStickerFlag("⭐;move=10,20")
	require.NoError(t, err)
	assert.Equal(t, cli.StickerFlag{Glyph: "⭐", Move: domain.Point{X: 10, Y: 20}}, opt)

	_, err = cli.ParseStickerFlag("⭐;color=red")
	assert.Error(t, err)
}

func TestComposer_EditsCapturedDraft(t *testing.T) {
	t.Parallel()

	endpoint := &captureEndpoint{}
	flow, store := setup(t, endpoint)
	asset, err := domain.NewCaptureAsset(store.Put("cam.jpg", []byte("jpeg")), domain.MediaKindPhoto, domain.OriginCamera, "vivid")
	require.NoError(t, err)
	require.NoError(t, flow.SelectAsset(asset))

	_, err = cli.New(flow, nil, nil).Run(context.Background(), cli.Plan{Caption: "from camera"})
	require.NoError(t, err)

	var source string
	for _, f := range endpoint.fields {
		if f.Name == ports.FieldSource {
			source = f.Value
		}
	}
	assert.Equal(t, "camera", source)
}
