// Package canvas holds the overlay layout of one draft and its drag-based
// repositioning.
//
// Every element has a committed position. A drag layers an uncommitted offset
// on top of it; successive updates replace the offset (last delta wins) and
// only EndDrag folds it into the committed position, clamped into the
// kind-specific bounds. Serialization reads committed positions only.
package canvas

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sufield/storyline/internal/assert"
	"github.com/sufield/storyline/internal/domain"
)

// Canvas is safe for concurrent use. Drag updates never block on anything but
// the canvas mutex.
type Canvas struct {
	mu       sync.Mutex
	size     domain.Size
	elements []domain.OverlayElement
	pending  map[domain.OverlayID]domain.Point
	newID    func() domain.OverlayID
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(fn func() domain.OverlayID) Option {
	return func(c *Canvas) { c.newID = fn }
}

// New creates an empty canvas of the given editor size.
// Returns domain.ErrInvalidCanvas if size is not strictly positive.
func New(size domain.Size, opts ...Option) (*Canvas, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %gx%g", domain.ErrInvalidCanvas, size.Width, size.Height)
	}
	c := &Canvas{
		size:    size,
		pending: make(map[domain.OverlayID]domain.Point),
		newID: func() domain.OverlayID {
			return domain.OverlayID(uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Size returns the editor canvas size used for placement and clamping.
func (c *Canvas) Size() domain.Size {
	return c.size
}

// AddText places a text overlay at the default position.
// Whitespace-only text is a silent no-op: ("", false).
func (c *Canvas) AddText(text string, style domain.TextStyle, color string) (domain.OverlayID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := domain.NewTextOverlay(c.mintID(), text, domain.ParseTextStyle(string(style)), color, domain.DefaultPlacement(c.size))
	if !ok {
		return "", false
	}
	c.elements = append(c.elements, el)
	return el.ID(), true
}

// AddSticker places a sticker at the default position. An empty glyph is a
// no-op.
func (c *Canvas) AddSticker(glyph string) (domain.OverlayID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := domain.NewStickerOverlay(c.mintID(), glyph, domain.DefaultPlacement(c.size))
	if !ok {
		return "", false
	}
	c.elements = append(c.elements, el)
	return el.ID(), true
}

// maxIDAttempts bounds calls to a custom generator that keeps colliding.
const maxIDAttempts = 8

// mintID returns an id not used by any live element. Caller holds mu.
func (c *Canvas) mintID() domain.OverlayID {
	for range maxIDAttempts {
		id := c.newID()
		if c.indexOf(id) < 0 {
			return id
		}
	}
	for {
		id := domain.OverlayID(uuid.NewString())
		if c.indexOf(id) < 0 {
			return id
		}
	}
}

// BeginDrag starts a drag with a zero offset, discarding any stale one.
func (c *Canvas) BeginDrag(id domain.OverlayID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", domain.ErrOverlayNotFound, id)
	}
	c.pending[id] = domain.Point{}
	return nil
}

// UpdateDrag sets the pending offset of id to delta, replacing the previous
// one. delta is the total translation since the drag began. Calling it
// without BeginDrag starts the drag.
func (c *Canvas) UpdateDrag(id domain.OverlayID, delta domain.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(id) < 0 {
		return fmt.Errorf("%w: %s", domain.ErrOverlayNotFound, id)
	}
	c.pending[id] = delta
	return nil
}

// EndDrag commits the pending offset and returns the clamped position.
// Without a pending offset the committed position is returned unchanged.
func (c *Canvas) EndDrag(id domain.OverlayID) (domain.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return domain.Point{}, fmt.Errorf("%w: %s", domain.ErrOverlayNotFound, id)
	}
	el := c.elements[i]
	offset, dragging := c.pending[id]
	if !dragging {
		return el.Position(), nil
	}
	delete(c.pending, id)

	bounds := domain.BoundsFor(c.size, el.Inset())
	committed := bounds.Clamp(el.Position().Add(offset))
	assert.Invariant(bounds.Contains(committed), "committed overlay must lie inside its bounds")
	c.elements[i] = el.WithPosition(committed)
	return committed, nil
}

// DisplayPosition returns where id is currently drawn: the committed position
// plus any pending offset, unclamped.
func (c *Canvas) DisplayPosition(id domain.OverlayID) (domain.Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return domain.Point{}, false
	}
	return c.elements[i].Position().Add(c.pending[id]), true
}

// Remove deletes id. It reports whether an element was removed; repeated
// calls are no-ops. Other elements are left untouched.
func (c *Canvas) Remove(id domain.OverlayID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	kept := make([]domain.OverlayElement, 0, len(c.elements)-1)
	kept = append(kept, c.elements[:i]...)
	kept = append(kept, c.elements[i+1:]...)
	c.elements = kept
	delete(c.pending, id)
	return true
}

// Element returns the element with id.
func (c *Canvas) Element(id domain.OverlayID) (domain.OverlayElement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return c.elements[i], true
}

// Elements returns the overlays in insertion order.
func (c *Canvas) Elements() []domain.OverlayElement {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.OverlayElement, len(c.elements))
	copy(out, c.elements)
	return out
}

// Len returns the number of overlays.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.elements)
}

// Serialize builds the overlay manifest against size. Pending drag offsets
// are not included.
func (c *Canvas) Serialize(size domain.Size) (domain.Manifest, error) {
	return domain.BuildManifest(c.Elements(), size)
}

func (c *Canvas) indexOf(id domain.OverlayID) int {
	for i, el := range c.elements {
		if el.ID() == id {
			return i
		}
	}
	return -1
}
