package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/metrics"
	"github.com/sufield/storyline/internal/ports"
)

// multipartMemory is the part of a form kept in memory; the rest spills to
// temporary files.
const multipartMemory = 8 << 20

// createStory accepts one multipart story upload.
func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > s.cfg.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	story, status, msg := s.parseStory(r)
	if status != 0 {
		s.log.WithFields(logrus.Fields{"status": status, "reason": msg}).Info("story rejected")
		writeError(w, status, msg)
		return
	}

	if debug.Faults.ShouldFailUpload() {
		debug.GetLogger().Debug("injected upload failure")
		writeError(w, http.StatusServiceUnavailable, "injected failure")
		return
	}

	if err := s.stories.Save(r.Context(), story); err != nil {
		s.log.WithError(err).Error("save story")
		writeError(w, http.StatusInternalServerError, "could not store story")
		return
	}
	metrics.RecordStoryReceived(string(story.ContentType), story.RequiresComposition)
	s.log.WithFields(logrus.Fields{
		"story_id": story.ID,
		"kind":     story.ContentType,
		"bytes":    story.MediaSize,
		"overlays": story.RequiresComposition,
	}).Info("story received")

	writeJSON(w, http.StatusCreated, map[string]string{"storyId": string(story.ID)})
}

// parseStory validates the form. A non-zero status means rejection.
func (s *Server) parseStory(r *http.Request) (ports.PublishedStory, int, string) {
	var story ports.PublishedStory

	file, hdr, err := r.FormFile(ports.FieldMedia)
	if err != nil {
		return story, http.StatusBadRequest, "media is required"
	}
	defer file.Close()
	size, err := io.Copy(io.Discard, file)
	if err != nil {
		return story, http.StatusBadRequest, "unreadable media"
	}
	if size == 0 {
		return story, http.StatusBadRequest, "media is empty"
	}

	kind := domain.MediaKind(r.FormValue(ports.FieldContentType))
	if !kind.Valid() {
		return story, http.StatusBadRequest, "contentType must be photo or video"
	}

	ms, err := strconv.ParseInt(r.FormValue(ports.FieldTimestamp), 10, 64)
	if err != nil || ms <= 0 {
		return story, http.StatusBadRequest, "timestamp must be epoch milliseconds"
	}

	source := domain.SourceOrigin(r.FormValue(ports.FieldSource))
	if source != "" && !source.Valid() {
		return story, http.StatusBadRequest, "source must be camera or gallery"
	}

	hasOverlays, err := parseFlag(r.FormValue(ports.FieldHasOverlays))
	if err != nil {
		return story, http.StatusBadRequest, "hasOverlays must be true or false"
	}

	story = ports.PublishedStory{
		ID:          domain.StoryID(uuid.NewString()),
		Caption:     domain.NormalizeCaption(r.FormValue(ports.FieldCaption)),
		Filter:      strings.TrimSpace(r.FormValue(ports.FieldFilter)),
		ContentType: kind,
		Source:      source,
		MediaName:   hdr.Filename,
		MediaSize:   size,
		CapturedAt:  time.UnixMilli(ms).UTC(),
		ReceivedAt:  s.now().UTC(),
	}

	if hasOverlays {
		raw := r.FormValue(ports.FieldOverlayData)
		if raw == "" {
			return story, http.StatusBadRequest, "overlayData is required when hasOverlays is true"
		}
		m, err := domain.ParseManifest([]byte(raw))
		if err != nil {
			return story, http.StatusBadRequest, "overlayData is not a valid manifest"
		}
		story.Overlays = &m
		story.RequiresComposition = true
	}
	return story, 0, ""
}

func parseFlag(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	stories, err := s.stories.List(r.Context())
	if err != nil {
		s.log.WithError(err).Error("list stories")
		writeError(w, http.StatusInternalServerError, "could not list stories")
		return
	}
	if stories == nil {
		stories = []ports.PublishedStory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"stories": stories})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
