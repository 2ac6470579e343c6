package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalPath(t *testing.T) {
	tests := map[string]string{
		"":                      "/",
		"/":                     "/",
		"/healthz":              "/healthz",
		"/api/stories":          "/api/stories",
		"/api/stories/abc/more": "/api/stories",
		"/_debug/faults/reset":  "/_debug/faults",
	}
	for in, want := range tests {
		assert.Equal(t, want, canonicalPath(in), in)
	}
}

func TestRecordAcquisition(t *testing.T) {
	before := testutil.ToFloat64(acquisitions.WithLabelValues("camera", "photo", "success"))
	RecordAcquisition("camera", "photo", "success")
	after := testutil.ToFloat64(acquisitions.WithLabelValues("camera", "photo", "success"))
	assert.Equal(t, before+1, after)
}

func TestUploadStarted(t *testing.T) {
	done := UploadStarted()
	assert.GreaterOrEqual(t, testutil.ToFloat64(uploadsInFlight), float64(1))

	before := testutil.ToFloat64(uploads.WithLabelValues("network_failure"))
	done("network_failure", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(uploads.WithLabelValues("network_failure")))
}

func TestInstrumentHandler(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/api/stories", "201"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/stories", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("POST", "/api/stories", "201")))
}

func TestHandler_ExposesNamespace(t *testing.T) {
	RecordStoryReceived("photo", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "storyline_endpoint_stories_received_total"))
}
