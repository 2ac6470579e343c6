package domain

import (
	"encoding/json"
	"fmt"
)

// ManifestVersion is the current overlay manifest format.
//
// The format only grows: new fields are optional and receivers ignore what
// they do not know, so older clients keep working against newer receivers.
const ManifestVersion = 1

// Manifest is the serialized overlay layout of one draft.
type Manifest struct {
	Version  int             `json:"version"`
	Canvas   Size            `json:"canvas"`
	Elements []ManifestEntry `json:"elements"`
}

// ManifestEntry carries one overlay with both encodings of its placement.
// Position is in canvas units (same-resolution fallback); RelativePosition is
// Position divided by the canvas size and is what renderers scale.
type ManifestEntry struct {
	ID               OverlayID   `json:"id"`
	Type             OverlayKind `json:"type"`
	Payload          Payload     `json:"payload"`
	Position         Point       `json:"position"`
	RelativePosition Point       `json:"relativePosition"`
}

// Payload holds the variant-specific content of an entry.
type Payload struct {
	Text  string    `json:"text,omitempty"`
	Style TextStyle `json:"style,omitempty"`
	Color string    `json:"color,omitempty"`
	Glyph string    `json:"glyph,omitempty"`
}

// BuildManifest serializes elements against size. relativePosition is always
// derived here from the committed position; it is never stored elsewhere.
//
// Returns ErrInvalidCanvas if size is not strictly positive.
func BuildManifest(elements []OverlayElement, size Size) (Manifest, error) {
	if !size.Valid() {
		return Manifest{}, fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, size.Width, size.Height)
	}
	m := Manifest{
		Version:  ManifestVersion,
		Canvas:   size,
		Elements: make([]ManifestEntry, 0, len(elements)),
	}
	for _, el := range elements {
		m.Elements = append(m.Elements, entryFor(el, size))
	}
	return m, nil
}

func entryFor(el OverlayElement, size Size) ManifestEntry {
	e := ManifestEntry{
		ID:               el.ID(),
		Type:             el.Kind(),
		Position:         el.Position(),
		RelativePosition: Relative(el.Position(), size),
	}
	switch v := el.(type) {
	case *TextOverlay:
		e.Payload = Payload{Text: v.Text, Style: v.Style, Color: v.Color}
	case *StickerOverlay:
		e.Payload = Payload{Glyph: v.Glyph}
	}
	return e
}

// HasOverlays reports whether the manifest carries any element.
func (m Manifest) HasOverlays() bool {
	return len(m.Elements) > 0
}

// Entry returns the entry with the given id.
func (m Manifest) Entry(id OverlayID) (ManifestEntry, bool) {
	for _, e := range m.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// Marshal encodes the manifest as the overlayData form field value.
func (m Manifest) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// ParseManifest decodes overlayData. Unknown fields and unknown element types
// are accepted; entries without an id or type are rejected.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode overlay manifest: %w", err)
	}
	if m.Version < 1 {
		return Manifest{}, fmt.Errorf("overlay manifest version %d is not supported", m.Version)
	}
	for i, e := range m.Elements {
		if e.ID == "" || e.Type == "" {
			return Manifest{}, fmt.Errorf("overlay manifest element %d: id and type are required", i)
		}
	}
	return m, nil
}
