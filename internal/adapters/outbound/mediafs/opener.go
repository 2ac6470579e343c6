// Package mediafs resolves asset uris to readable media for upload.
package mediafs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/ports"
)

// FileOpener opens file:// uris from the local filesystem.
type FileOpener struct{}

// Open implements ports.MediaOpener.
func (FileOpener) Open(_ context.Context, uri string) (*ports.MediaFile, error) {
	path, err := PathFromURI(uri)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 - the user picked this media file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ports.ErrMediaNotFound, path)
		}
		return nil, fmt.Errorf("open media: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat media: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ports.ErrMediaNotFound, path)
	}
	return &ports.MediaFile{ReadCloser: f, Name: info.Name(), Size: info.Size()}, nil
}

// PathFromURI returns the local path of a file:// uri.
func PathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("parse media uri: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %q", ports.ErrUnsupportedScheme, u.Scheme)
	}
	// file://relative.jpg puts the name in Host.
	p := u.Path
	if u.Host != "" && u.Host != "localhost" {
		p = u.Host + u.Path
	}
	if p == "" {
		return "", fmt.Errorf("%w: empty path in %q", ports.ErrMediaNotFound, uri)
	}
	return filepath.FromSlash(p), nil
}

// URIFromPath builds the file:// uri of a local path. Relative paths are
// made absolute first.
func URIFromPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// KindFromName guesses photo or video from the file extension.
func KindFromName(name string) (domain.MediaKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".heic", ".webp", ".gif":
		return domain.MediaKindPhoto, true
	case ".mp4", ".mov", ".m4v", ".webm":
		return domain.MediaKindVideo, true
	default:
		return "", false
	}
}

// Router dispatches Open by uri scheme.
type Router struct {
	mu      sync.RWMutex
	openers map[string]ports.MediaOpener
}

// NewRouter creates a router with file:// already registered.
func NewRouter() *Router {
	r := &Router{openers: make(map[string]ports.MediaOpener)}
	r.Register("file", FileOpener{})
	return r
}

// Register routes scheme to opener, replacing any previous one.
func (r *Router) Register(scheme string, opener ports.MediaOpener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openers[strings.ToLower(scheme)] = opener
}

// Open implements ports.MediaOpener.
func (r *Router) Open(ctx context.Context, uri string) (*ports.MediaFile, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse media uri: %w", err)
	}
	r.mu.RLock()
	opener, ok := r.openers[strings.ToLower(u.Scheme)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrUnsupportedScheme, u.Scheme)
	}
	return opener.Open(ctx, uri)
}

var (
	_ ports.MediaOpener = FileOpener{}
	_ ports.MediaOpener = (*Router)(nil)
)
