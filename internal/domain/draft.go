package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DraftID identifies a draft for logs and metrics. It is never sent to the
// endpoint.
type DraftID string

// StoryID is the identifier the endpoint assigns to a published story.
type StoryID string

// String returns the string form of the id.
func (id StoryID) String() string { return string(id) }

// UploadStatus tracks a draft's upload lifecycle.
type UploadStatus string

const (
	UploadIdle      UploadStatus = "idle"
	UploadUploading UploadStatus = "uploading"
	UploadFailed    UploadStatus = "failed"
	UploadDone      UploadStatus = "uploaded"
)

// MaxCaptionLength bounds captions in runes.
const MaxCaptionLength = 2200

// NormalizeCaption trims surrounding whitespace and truncates to
// MaxCaptionLength runes.
func NormalizeCaption(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxCaptionLength {
		return s
	}
	r := []rune(s)
	return string(r[:MaxCaptionLength])
}

// StoryDraft is a point-in-time view of the draft being edited.
// The live, mutable draft is owned by the flow controller; this snapshot is
// what the upload pipeline serializes.
type StoryDraft struct {
	ID            DraftID
	Asset         *CaptureAsset
	Caption       string
	Overlays      []OverlayElement
	Status        UploadStatus
	FailureReason string
	CreatedAt     time.Time
}

// HasOverlays reports whether the draft carries any overlay.
func (d StoryDraft) HasOverlays() bool {
	return len(d.Overlays) > 0
}
