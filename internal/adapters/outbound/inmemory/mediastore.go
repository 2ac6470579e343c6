package inmemory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sync"

	"github.com/sufield/storyline/internal/ports"
)

// Scheme is the uri scheme served by MediaStore.
const Scheme = "mem"

// MediaStore holds media content keyed by mem:// uri.
type MediaStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMediaStore creates an empty store.
func NewMediaStore() *MediaStore {
	return &MediaStore{blobs: make(map[string][]byte)}
}

// Put stores data under mem://<key> and returns the uri.
func (s *MediaStore) Put(key string, data []byte) string {
	uri := Scheme + "://" + key
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[uri] = append([]byte(nil), data...)
	return uri
}

// Len returns the number of stored blobs.
func (s *MediaStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Open implements ports.MediaOpener.
func (s *MediaStore) Open(_ context.Context, uri string) (*ports.MediaFile, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != Scheme {
		return nil, fmt.Errorf("%w: %q", ports.ErrUnsupportedScheme, uri)
	}

	s.mu.RLock()
	data, ok := s.blobs[uri]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrMediaNotFound, uri)
	}
	return &ports.MediaFile{
		ReadCloser: io.NopCloser(bytes.NewReader(data)),
		Name:       path.Base(u.Host + u.Path),
		Size:       int64(len(data)),
	}, nil
}

var _ ports.MediaOpener = (*MediaStore)(nil)
