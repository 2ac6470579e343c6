package debug

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	maxRequestBodyBytes = 10 * 1024 // 10KB max for fault injection requests
)

// Introspector is implemented by components that can provide debug snapshots.
type Introspector interface {
	SnapshotData(ctx context.Context) Snapshot
}

// Snapshot is what we expose over /_debug/state. It never carries media
// content or captions.
type Snapshot struct {
	Stage     string `json:"stage"`
	DraftID   string `json:"draftId,omitempty"`
	AssetKind string `json:"assetKind,omitempty"`
	Overlays  int    `json:"overlays"`
	Uploading bool   `json:"uploading"`
	Stories   int    `json:"stories"`
}

// FaultRequest represents a fault injection request
type FaultRequest struct {
	DenyNextPermission     *bool `json:"deny_next_permission,omitempty"`
	FailNextCapture        *bool `json:"fail_next_capture,omitempty"`
	EmptyNextCaptureURI    *bool `json:"empty_next_capture_uri,omitempty"`
	DelayNextCaptureMillis *int  `json:"delay_next_capture_millis,omitempty"`
	FailNextUpload         *bool `json:"fail_next_upload,omitempty"`
}

// Routes returns the /_debug endpoints. introspector may be nil, in which
// case /_debug/state answers 501.
func Routes(introspector Introspector) http.Handler {
	r := chi.NewRouter()
	r.Get("/state", func(w http.ResponseWriter, req *http.Request) {
		if introspector == nil {
			http.Error(w, "state introspection not available", http.StatusNotImplemented)
			return
		}
		writeJSON(w, introspector.SnapshotData(req.Context()))
	})
	r.Get("/faults", getFaults)
	r.Post("/faults", setFaults)
	r.Post("/faults/reset", func(w http.ResponseWriter, _ *http.Request) {
		Faults.Reset()
		GetLogger().Debug("all faults reset")
		writeJSON(w, map[string]string{"status": "reset"})
	})
	r.Get("/config", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"enabled":         Active.Enabled,
			"single_threaded": Active.SingleThreaded,
			"routes":          Active.Routes,
		})
	})
	return r
}

func getFaults(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, Faults.Snapshot())
}

// setFaults applies fault injection configuration from JSON request.
func setFaults(w http.ResponseWriter, r *http.Request) {
	logger := GetLogger()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	var req FaultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithError(err).Debug("failed to decode fault request")
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	if req.DelayNextCaptureMillis != nil {
		if err := Faults.SetDelayNextCapture(*req.DelayNextCaptureMillis); err != nil {
			http.Error(w, fmt.Sprintf("Invalid delay: %v", err), http.StatusBadRequest)
			return
		}
	}
	if req.DenyNextPermission != nil {
		Faults.SetDenyNextPermission(*req.DenyNextPermission)
	}
	if req.FailNextCapture != nil {
		Faults.SetFailNextCapture(*req.FailNextCapture)
	}
	if req.EmptyNextCaptureURI != nil {
		Faults.SetEmptyNextCaptureURI(*req.EmptyNextCaptureURI)
	}
	if req.FailNextUpload != nil {
		Faults.SetFailNextUpload(*req.FailNextUpload)
	}
	logger.WithField("faults", Faults.Snapshot()).Debug("faults updated")

	getFaults(w, r)
}

// writeJSON writes a JSON response with proper content type.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
