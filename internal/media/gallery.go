package media

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/metrics"
	"github.com/sufield/storyline/internal/ports"
)

// Gallery is the photo-library variant of Source. Listing is lazy and paged,
// newest first; the library is never materialized as a whole.
type Gallery struct {
	lib      ports.MediaLibrary
	pageSize int
	log      logrus.FieldLogger
	perm     permissionGate
}

// NewGallery wraps lib. pageSize <= 0 means 30.
func NewGallery(lib ports.MediaLibrary, pageSize int, logger logrus.FieldLogger) *Gallery {
	if pageSize <= 0 {
		pageSize = 30
	}
	g := &Gallery{
		lib:      lib,
		pageSize: pageSize,
		log:      logging.OrDiscard(logger).WithField("source", domain.OriginGallery),
	}
	g.perm.request = lib.RequestPermission
	return g
}

// RequestPermission asks for library access. It is idempotent once granted.
func (g *Gallery) RequestPermission(ctx context.Context) (bool, error) {
	ok, err := g.perm.ensure(ctx)
	g.log.WithField("granted", ok).Debug("library permission")
	return ok, err
}

// Pages returns a pager positioned on the first page. Listing waits for the
// permission request; denial yields domain.ErrPermissionDenied.
func (g *Gallery) Pages(ctx context.Context) (*Pager, error) {
	granted, err := g.perm.ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAcquisitionFailure, err)
	}
	if !granted {
		g.log.Info("library permission denied")
		return nil, domain.ErrPermissionDenied
	}
	return &Pager{lib: g.lib, size: g.pageSize}, nil
}

// Select turns a listed item into an asset immediately.
func (g *Gallery) Select(item ports.LibraryItem) (*domain.CaptureAsset, error) {
	asset, err := domain.NewCaptureAsset(item.URI, item.Kind, domain.OriginGallery, "")
	if err != nil {
		metrics.RecordAcquisition(string(domain.OriginGallery), string(item.Kind), "invalid")
		return nil, err
	}
	g.log.WithFields(logrus.Fields{"uri": asset.URI(), "kind": asset.Kind()}).Info("asset acquired")
	metrics.RecordAcquisition(string(domain.OriginGallery), string(item.Kind), "success")
	return asset, nil
}

// Selection binds an item so it can be used where a Source is expected.
func (g *Gallery) Selection(item ports.LibraryItem) Source {
	return selection{g: g, item: item}
}

type selection struct {
	g    *Gallery
	item ports.LibraryItem
}

func (s selection) Acquire(ctx context.Context) (*domain.CaptureAsset, error) {
	granted, err := s.g.perm.ensure(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAcquisitionFailure, err)
	}
	if !granted {
		return nil, domain.ErrPermissionDenied
	}
	return s.g.Select(s.item)
}

// Pager walks the library one page at a time.
type Pager struct {
	mu   sync.Mutex
	lib  ports.MediaLibrary
	size int
	page int
	done bool
}

// Next returns the next page. more is false once a short or empty page has
// been seen; later calls return (nil, false, nil).
func (p *Pager) Next(ctx context.Context) (items []ports.LibraryItem, more bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done {
		return nil, false, nil
	}
	items, err = p.lib.ListAssets(ctx, p.page, p.size, true)
	if err != nil {
		return nil, false, fmt.Errorf("list page %d: %w", p.page, err)
	}
	p.page++
	if len(items) < p.size {
		p.done = true
	}
	return items, !p.done, nil
}

// Page returns the index of the next page to be fetched.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}
