package domain

import "strings"

// OverlayID identifies an overlay within one draft. Text and sticker overlays
// share the same id space.
type OverlayID string

// String returns the string form of the id.
func (id OverlayID) String() string { return string(id) }

// OverlayKind discriminates the OverlayElement union.
type OverlayKind string

const (
	OverlayKindText    OverlayKind = "text"
	OverlayKindSticker OverlayKind = "sticker"
)

// Clamp insets per overlay kind. Text needs more horizontal room than a
// single glyph.
var (
	TextInset    = Inset{Horizontal: 50, Vertical: 100}
	StickerInset = Inset{Horizontal: 25, Vertical: 100}
)

// OverlayElement is a positionable annotation drawn over a CaptureAsset.
//
// The union is closed: only TextOverlay and StickerOverlay implement it
// (the unexported overlay method prevents other implementations). Use a type
// switch to handle each variant.
type OverlayElement interface {
	ID() OverlayID
	Kind() OverlayKind
	Position() Point
	// Inset returns the clamp margins for this kind.
	Inset() Inset
	// WithPosition returns a copy of the element moved to p.
	WithPosition(p Point) OverlayElement

	overlay()
}

// TextStyle is one of the editor's text style choices.
type TextStyle string

const (
	TextStyleClassic    TextStyle = "classic"
	TextStyleBold       TextStyle = "bold"
	TextStyleNeon       TextStyle = "neon"
	TextStyleTypewriter TextStyle = "typewriter"
)

// ParseTextStyle maps a user choice onto a known style. Unknown or empty
// choices fall back to classic.
func ParseTextStyle(s string) TextStyle {
	switch TextStyle(strings.ToLower(strings.TrimSpace(s))) {
	case TextStyleBold:
		return TextStyleBold
	case TextStyleNeon:
		return TextStyleNeon
	case TextStyleTypewriter:
		return TextStyleTypewriter
	default:
		return TextStyleClassic
	}
}

// DefaultTextColor is used when no color choice is given.
const DefaultTextColor = "#FFFFFF"

// TextOverlay is a styled text annotation.
type TextOverlay struct {
	id       OverlayID
	position Point
	Text     string
	Style    TextStyle
	Color    string
}

// NewTextOverlay builds a text overlay. The bool result is false when text is
// empty or whitespace-only; that is a validation no-op, not an error.
func NewTextOverlay(id OverlayID, text string, style TextStyle, color string, at Point) (*TextOverlay, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	if color = strings.TrimSpace(color); color == "" {
		color = DefaultTextColor
	}
	return &TextOverlay{id: id, position: at, Text: text, Style: style, Color: color}, true
}

func (t *TextOverlay) ID() OverlayID     { return t.id }
func (t *TextOverlay) Kind() OverlayKind { return OverlayKindText }
func (t *TextOverlay) Position() Point   { return t.position }
func (t *TextOverlay) Inset() Inset      { return TextInset }
func (t *TextOverlay) overlay()          {}

func (t *TextOverlay) WithPosition(p Point) OverlayElement {
	cp := *t
	cp.position = p
	return &cp
}

// StickerOverlay is a single glyph (usually an emoji).
type StickerOverlay struct {
	id       OverlayID
	position Point
	Glyph    string
}

// NewStickerOverlay builds a sticker overlay. The bool result is false for an
// empty glyph.
func NewStickerOverlay(id OverlayID, glyph string, at Point) (*StickerOverlay, bool) {
	if strings.TrimSpace(glyph) == "" {
		return nil, false
	}
	return &StickerOverlay{id: id, position: at, Glyph: glyph}, true
}

func (s *StickerOverlay) ID() OverlayID     { return s.id }
func (s *StickerOverlay) Kind() OverlayKind { return OverlayKindSticker }
func (s *StickerOverlay) Position() Point   { return s.position }
func (s *StickerOverlay) Inset() Inset      { return StickerInset }
func (s *StickerOverlay) overlay()          {}

func (s *StickerOverlay) WithPosition(p Point) OverlayElement {
	cp := *s
	cp.position = p
	return &cp
}

var (
	_ OverlayElement = (*TextOverlay)(nil)
	_ OverlayElement = (*StickerOverlay)(nil)
)
