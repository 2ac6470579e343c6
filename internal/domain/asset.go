package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// MediaKind is the content type of a captured asset.
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

// Valid reports whether k is a known media kind.
func (k MediaKind) Valid() bool {
	return k == MediaKindPhoto || k == MediaKindVideo
}

// SourceOrigin records where an asset was acquired.
type SourceOrigin string

const (
	OriginCamera  SourceOrigin = "camera"
	OriginGallery SourceOrigin = "gallery"
)

// Valid reports whether o is a known origin.
func (o SourceOrigin) Valid() bool {
	return o == OriginCamera || o == OriginGallery
}

// CaptureAsset is a single acquired media item.
// It is produced once per acquisition and never modified afterwards; all
// fields are unexported and exposed through accessors.
type CaptureAsset struct {
	uri       string
	kind      MediaKind
	origin    SourceOrigin
	filterTag string
}

// NewCaptureAsset validates device output and builds an asset.
//
// Returns ErrAcquisitionFailure (wrapped) when:
//   - uri is empty or whitespace
//   - uri does not parse or has no scheme (e.g. "file://", "content://")
//   - kind or origin is unknown
//
// The filter tag is opaque and carried as-is.
func NewCaptureAsset(uri string, kind MediaKind, origin SourceOrigin, filterTag string) (*CaptureAsset, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return nil, fmt.Errorf("%w: empty uri", ErrAcquisitionFailure)
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed uri %q: %v", ErrAcquisitionFailure, uri, err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%w: uri %q has no scheme", ErrAcquisitionFailure, uri)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown media kind %q", ErrAcquisitionFailure, kind)
	}
	if !origin.Valid() {
		return nil, fmt.Errorf("%w: unknown source origin %q", ErrAcquisitionFailure, origin)
	}
	return &CaptureAsset{
		uri:       uri,
		kind:      kind,
		origin:    origin,
		filterTag: filterTag,
	}, nil
}

// URI returns the asset location.
func (a *CaptureAsset) URI() string { return a.uri }

// Kind returns photo or video.
func (a *CaptureAsset) Kind() MediaKind { return a.kind }

// Origin returns camera or gallery.
func (a *CaptureAsset) Origin() SourceOrigin { return a.origin }

// FilterTag returns the opaque filter tag, possibly empty.
func (a *CaptureAsset) FilterTag() string { return a.filterTag }

// IsValid reports whether the asset can back a draft.
// A nil asset is invalid.
func (a *CaptureAsset) IsValid() bool {
	return a != nil && a.uri != ""
}

// String returns "kind:origin:uri" for logs.
func (a *CaptureAsset) String() string {
	if a == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%s:%s", a.kind, a.origin, a.uri)
}
