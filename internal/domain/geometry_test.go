package domain_test

import (
	"math"
	"os"
	"strconv"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/domain"
)

// defaultPBTConfig returns standard config for property-based tests
func defaultPBTConfig() *quick.Config {
	maxCount := 5000
	if v := os.Getenv("PBT_MAX_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxCount = n
		}
	}
	return &quick.Config{MaxCount: maxCount}
}

// positive maps an arbitrary float onto a canvas-like dimension in (0, 4000].
func positive(f float64) float64 {
	return math.Mod(math.Abs(f), 4000) + 1
}

func TestBoundsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		size  domain.Size
		inset domain.Inset
		want  domain.Bounds
	}{
		{
			name:  "text on phone canvas",
			size:  domain.Size{Width: 390, Height: 844},
			inset: domain.TextInset,
			want:  domain.Bounds{Min: domain.Point{X: 50, Y: 100}, Max: domain.Point{X: 340, Y: 744}},
		},
		{
			name:  "sticker on phone canvas",
			size:  domain.Size{Width: 390, Height: 844},
			inset: domain.StickerInset,
			want:  domain.Bounds{Min: domain.Point{X: 25, Y: 100}, Max: domain.Point{X: 365, Y: 744}},
		},
		{
			name:  "canvas narrower than inset collapses to midpoint",
			size:  domain.Size{Width: 80, Height: 844},
			inset: domain.TextInset,
			want:  domain.Bounds{Min: domain.Point{X: 40, Y: 100}, Max: domain.Point{X: 40, Y: 744}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.BoundsFor(tt.size, tt.inset))
		})
	}
}

func TestBounds_Clamp(t *testing.T) {
	t.Parallel()

	b := domain.BoundsFor(domain.Size{Width: 390, Height: 844}, domain.TextInset)

	assert.Equal(t, domain.Point{X: 235, Y: 251}, b.Clamp(domain.Point{X: 235, Y: 251}), "inside point unchanged")
	assert.Equal(t, domain.Point{X: 50, Y: 100}, b.Clamp(domain.Point{X: -10, Y: 0}))
	assert.Equal(t, domain.Point{X: 340, Y: 744}, b.Clamp(domain.Point{X: 1000, Y: 1000}))
}

func TestDefaultPlacement(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.Point{X: 195, Y: 281}, domain.DefaultPlacement(domain.Size{Width: 390, Height: 844}))
}

func TestSize_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, domain.Size{Width: 1, Height: 1}.Valid())
	assert.False(t, domain.Size{Width: 0, Height: 1}.Valid())
	assert.False(t, domain.Size{Width: 1, Height: -5}.Valid())
	assert.False(t, domain.Size{Width: math.Inf(1), Height: 1}.Valid())
}

// TestGeometry_Properties checks the coordinate model for arbitrary inputs.
func TestGeometry_Properties(t *testing.T) {
	t.Parallel()

	t.Run("clamp lands inside bounds", func(t *testing.T) {
		t.Parallel()

		property := func(w, h, x, y float64, sticker bool) bool {
			size := domain.Size{Width: positive(w), Height: positive(h)}
			inset := domain.TextInset
			if sticker {
				inset = domain.StickerInset
			}
			b := domain.BoundsFor(size, inset)
			return b.Contains(b.Clamp(domain.Point{X: x, Y: y}))
		}
		require.NoError(t, quick.Check(property, defaultPBTConfig()))
	})

	t.Run("clamp is idempotent", func(t *testing.T) {
		t.Parallel()

		property := func(w, h, x, y float64) bool {
			b := domain.BoundsFor(domain.Size{Width: positive(w), Height: positive(h)}, domain.TextInset)
			once := b.Clamp(domain.Point{X: x, Y: y})
			return b.Clamp(once) == once
		}
		require.NoError(t, quick.Check(property, defaultPBTConfig()))
	})

	t.Run("relative position is position over size", func(t *testing.T) {
		t.Parallel()

		property := func(w, h, x, y float64) bool {
			size := domain.Size{Width: positive(w), Height: positive(h)}
			p := domain.Point{X: x, Y: y}
			rel := domain.Relative(p, size)
			return rel.X == p.X/size.Width && rel.Y == p.Y/size.Height
		}
		require.NoError(t, quick.Check(property, defaultPBTConfig()))
	})

	t.Run("scale inverts relative within tolerance", func(t *testing.T) {
		t.Parallel()

		property := func(w, h, x, y float64) bool {
			size := domain.Size{Width: positive(w), Height: positive(h)}
			p := domain.Point{X: math.Mod(x, 1e6), Y: math.Mod(y, 1e6)}
			back := domain.Scale(domain.Relative(p, size), size)
			return math.Abs(back.X-p.X) < 1e-6 && math.Abs(back.Y-p.Y) < 1e-6
		}
		require.NoError(t, quick.Check(property, defaultPBTConfig()))
	})
}
