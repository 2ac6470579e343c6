package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/domain"
)

func TestBuildManifest(t *testing.T) {
	t.Parallel()

	text, _ := domain.NewTextOverlay("t1", "Hello", domain.TextStyleBold, "#FF0000", domain.Point{X: 235, Y: 251})
	sticker, _ := domain.NewStickerOverlay("s1", "⭐", domain.Point{X: 195, Y: 422})
	size := domain.Size{Width: 390, Height: 844}

	m, err := domain.BuildManifest([]domain.OverlayElement{text, sticker}, size)
	require.NoError(t, err)

	assert.Equal(t, domain.ManifestVersion, m.Version)
	assert.True(t, m.HasOverlays())
	require.Len(t, m.Elements, 2)

	e, ok := m.Entry("t1")
	require.True(t, ok)
	assert.Equal(t, domain.OverlayKindText, e.Type)
	assert.Equal(t, "Hello", e.Payload.Text)
	assert.InDelta(t, 0.603, e.RelativePosition.X, 0.001)
	assert.InDelta(t, 0.297, e.RelativePosition.Y, 0.001)

	s, ok := m.Entry("s1")
	require.True(t, ok)
	assert.Equal(t, "⭐", s.Payload.Glyph)
	assert.Empty(t, s.Payload.Text)
	assert.Equal(t, 0.5, s.RelativePosition.Y)
}

func TestBuildManifest_InvalidCanvas(t *testing.T) {
	t.Parallel()

	_, err := domain.BuildManifest(nil, domain.Size{Width: 0, Height: 844})
	assert.ErrorIs(t, err, domain.ErrInvalidCanvas)
}

func TestManifest_WireShape(t *testing.T) {
	t.Parallel()

	sticker, _ := domain.NewStickerOverlay("s1", "🎉", domain.Point{X: 100, Y: 200})
	m, err := domain.BuildManifest([]domain.OverlayElement{sticker}, domain.Size{Width: 400, Height: 800})
	require.NoError(t, err)

	data, err := m.Marshal()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	elements := raw["elements"].([]any)
	first := elements[0].(map[string]any)

	assert.Equal(t, "sticker", first["type"])
	assert.Equal(t, map[string]any{"x": 0.25, "y": 0.25}, first["relativePosition"])
	assert.Equal(t, map[string]any{"glyph": "🎉"}, first["payload"], "empty payload fields are omitted")
}

func TestParseManifest(t *testing.T) {
	t.Parallel()

	t.Run("unknown fields from newer clients are accepted", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"version":2,"canvas":{"width":390,"height":844},"rotation":true,
			"elements":[{"id":"a","type":"gif","payload":{"url":"x"},"position":{"x":1,"y":2},"relativePosition":{"x":0,"y":0},"zIndex":3}]}`)
		m, err := domain.ParseManifest(data)
		require.NoError(t, err)
		assert.Equal(t, 2, m.Version)
		assert.Equal(t, domain.OverlayKind("gif"), m.Elements[0].Type)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		t.Parallel()

		_, err := domain.ParseManifest([]byte(`{"version":1,"elements":[{"type":"text"}]}`))
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()

		_, err := domain.ParseManifest([]byte(`overlay`))
		assert.Error(t, err)
	})

	t.Run("version zero rejected", func(t *testing.T) {
		t.Parallel()

		_, err := domain.ParseManifest([]byte(`{"elements":[]}`))
		assert.Error(t, err)
	})
}
