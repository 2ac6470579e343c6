package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/ports"
)

func submission(overlays []byte) *ports.Submission {
	return &ports.Submission{
		Media: &ports.MediaFile{
			ReadCloser: io.NopCloser(strings.NewReader("jpegbytes")),
			Name:       "a.jpg",
			Size:       9,
		},
		Caption:     "hello",
		Filter:      "normal",
		ContentType: domain.MediaKindPhoto,
		Timestamp:   time.UnixMilli(1_700_000_000_000),
		Source:      domain.OriginGallery,
		OverlayData: overlays,
	}
}

func newClient(t *testing.T, url string) *StoryClient {
	t.Helper()
	c, err := New(url, 5*time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadEndpoints(t *testing.T) {
	t.Parallel()

	for _, ep := range []string{"", "ftp://x/y", "http://", "::bad"} {
		_, err := New(ep, 0, nil)
		assert.Error(t, err, ep)
	}

	c, err := New("https://stories.example/api/stories", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}

func TestPublish_SendsMultipartForm(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		fields = map[string]string{}
		media  string
		length int64
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		mu.Lock()
		defer mu.Unlock()
		for k, v := range r.MultipartForm.Value {
			fields[k] = v[0]
		}
		f, hdr, err := r.FormFile(ports.FieldMedia)
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		media = hdr.Filename + ":" + string(b)
		length = r.ContentLength
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"storyId":"s-1"}`)
	}))
	defer srv.Close()

	var lastSent, lastTotal int64
	id, err := newClient(t, srv.URL).Publish(context.Background(), submission([]byte(`{"version":1}`)),
		func(sent, total int64) { lastSent, lastTotal = sent, total })
	require.NoError(t, err)
	assert.Equal(t, domain.StoryID("s-1"), id)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "a.jpg:jpegbytes", media)
	assert.Equal(t, "hello", fields[ports.FieldCaption])
	assert.Equal(t, "normal", fields[ports.FieldFilter])
	assert.Equal(t, "true", fields[ports.FieldHasOverlays])
	assert.Equal(t, "photo", fields[ports.FieldContentType])
	assert.Equal(t, "1700000000000", fields[ports.FieldTimestamp])
	assert.Equal(t, "gallery", fields[ports.FieldSource])
	assert.Equal(t, `{"version":1}`, fields[ports.FieldOverlayData])
	assert.Equal(t, "true", fields[ports.FieldRequiresComposition])

	assert.Positive(t, length)
	assert.Equal(t, length, lastTotal)
	assert.Equal(t, lastTotal, lastSent)
}

func TestPublish_NoOverlaysOmitsManifest(t *testing.T) {
	t.Parallel()

	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		got = r.MultipartForm.Value
		_, _ = io.WriteString(w, `{"id":42}`)
	}))
	defer srv.Close()

	id, err := newClient(t, srv.URL).Publish(context.Background(), submission(nil), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StoryID("42"), id)
	assert.Equal(t, []string{"false"}, got[ports.FieldHasOverlays])
	assert.NotContains(t, got, ports.FieldOverlayData)
	assert.NotContains(t, got, ports.FieldRequiresComposition)
}

func TestStoryID_Paths(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.StoryID{
		`{"storyId":"a"}`:                 "a",
		`{"id":"b"}`:                      "b",
		`{"story":{"id":"c"}}`:            "c",
		`{"story":{"_id":"d"}}`:           "d",
		`{"storyId":"","id":"e"}`:         "e",
		`{"storyId":"first","id":"late"}`: "first",
	}
	for body, want := range cases {
		id, err := storyID([]byte(body))
		require.NoError(t, err, body)
		assert.Equal(t, want, id, body)
	}

	for _, body := range []string{`{}`, `{"id":null}`, `{"id":{"x":1}}`, `not json`, ``} {
		_, err := storyID([]byte(body))
		assert.ErrorIs(t, err, ports.ErrMalformedResponse, body)
	}
}

func TestPublish_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, ports.ErrEndpointRejected},
		{"bad request", http.StatusBadRequest, `nope`, ports.ErrEndpointRejected},
		{"html success", http.StatusOK, `<html></html>`, ports.ErrMalformedResponse},
		{"missing id", http.StatusCreated, `{"ok":true}`, ports.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL).Publish(context.Background(), submission(nil), nil)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPublish_TransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url).Publish(context.Background(), submission(nil), nil)
	assert.ErrorIs(t, err, ports.ErrTransport)
}

func TestPublish_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newClient(t, srv.URL).Publish(ctx, submission(nil), nil)
	assert.ErrorIs(t, err, ports.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPublish_NilSubmission(t *testing.T) {
	t.Parallel()

	c := newClient(t, "http://127.0.0.1:1/api/stories")
	_, err := c.Publish(context.Background(), nil, nil)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = io.WriteString(w, `{"stories":[{"id":"s-1","caption":"x","contentType":"photo"}]}`)
	}))
	defer srv.Close()

	stories, err := newClient(t, srv.URL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, domain.StoryID("s-1"), stories[0].ID)
	assert.Equal(t, domain.MediaKindPhoto, stories[0].ContentType)
}
