package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/ports"
)

// DefaultTimeout bounds one publish round trip.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 1 << 20

// idPaths are the response locations of the story id, in lookup order.
var idPaths = []string{"storyId", "id", "story.id", "story._id"}

// StoryClient implements ports.StoryEndpoint.
type StoryClient struct {
	endpoint string
	client   *http.Client
	log      logrus.FieldLogger
}

// Option configures a StoryClient.
type Option func(*StoryClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *StoryClient) {
		if c != nil {
			s.client = c
		}
	}
}

// New creates a client posting to endpoint, an absolute http(s) URL.
// A zero timeout means DefaultTimeout.
func New(endpoint string, timeout time.Duration, logger logrus.FieldLogger, opts ...Option) (*StoryClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must be http or https, got %q", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint has no host: %q", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	s := &StoryClient{
		endpoint: u.String(),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: logging.OrDiscard(logger).WithField("adapter", "httpclient"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Endpoint returns the URL stories are posted to.
func (s *StoryClient) Endpoint() string { return s.endpoint }

// Publish implements ports.StoryEndpoint.
func (s *StoryClient) Publish(ctx context.Context, sub *ports.Submission, onSent func(sent, total int64)) (domain.StoryID, error) {
	if sub == nil || sub.Media == nil {
		return "", errors.New("submission has no media")
	}

	body, contentType, err := encode(sub)
	if err != nil {
		return "", err
	}
	total := int64(body.Len())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint,
		&countingReader{r: bytes.NewReader(body.Bytes()), total: total, onSent: onSent})
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.log.WithError(err).Warn("publish transport failure")
		return "", fmt.Errorf("%w: %w", ports.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ports.ErrTransport, err)
	}

	entry := s.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"bytes":    total,
		"duration": time.Since(start).Round(time.Millisecond),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry.Warn("publish rejected")
		return "", fmt.Errorf("%w: status %d: %s", ports.ErrEndpointRejected, resp.StatusCode, snippet(raw))
	}

	id, err := storyID(raw)
	if err != nil {
		entry.WithError(err).Warn("publish response unusable")
		return "", err
	}
	entry.WithField("story_id", id).Debug("story published")
	return id, nil
}

// List fetches the stories accepted so far by a storyline server.
func (s *StoryClient) List(ctx context.Context) ([]ports.PublishedStory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ports.ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ports.ErrEndpointRejected, resp.StatusCode, snippet(raw))
	}

	var out struct {
		Stories []ports.PublishedStory `json:"stories"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrMalformedResponse, err)
	}
	return out.Stories, nil
}

func encode(sub *ports.Submission) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range sub.Fields() {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	name := sub.Media.Name
	if name == "" {
		name = "media"
	}
	part, err := w.CreateFormFile(ports.FieldMedia, name)
	if err != nil {
		return nil, "", fmt.Errorf("create media part: %w", err)
	}
	if _, err := io.Copy(part, sub.Media); err != nil {
		return nil, "", fmt.Errorf("read media: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func storyID(raw []byte) (domain.StoryID, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("%w: body is not JSON: %s", ports.ErrMalformedResponse, snippet(raw))
	}
	for _, r := range gjson.GetManyBytes(raw, idPaths...) {
		if !r.Exists() {
			continue
		}
		if r.Type != gjson.String && r.Type != gjson.Number {
			continue
		}
		if id := strings.TrimSpace(r.String()); id != "" {
			return domain.StoryID(id), nil
		}
	}
	return "", fmt.Errorf("%w: no story id in %s", ports.ErrMalformedResponse, snippet(raw))
}

func snippet(raw []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(raw))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

// countingReader reports cumulative bytes read by the transport.
type countingReader struct {
	r      io.Reader
	sent   atomic.Int64
	total  int64
	onSent func(sent, total int64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.onSent != nil {
		c.onSent(c.sent.Add(int64(n)), c.total)
	}
	return n, err
}

var _ ports.StoryEndpoint = (*StoryClient)(nil)
