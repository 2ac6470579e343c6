package ports

import (
	"io"
	"strconv"
	"time"

	"github.com/sufield/storyline/internal/domain"
)

// Multipart field names of the story upload request.
const (
	FieldMedia               = "media"
	FieldCaption             = "caption"
	FieldFilter              = "filter"
	FieldHasOverlays         = "hasOverlays"
	FieldContentType         = "contentType"
	FieldTimestamp           = "timestamp"
	FieldSource              = "source"
	FieldOverlayData         = "overlayData"
	FieldRequiresComposition = "requiresComposition"
)

// LibraryItem is one entry of a media library page.
type LibraryItem struct {
	URI        string
	Kind       domain.MediaKind
	ModifiedAt time.Time
}

// MediaFile is opened media content. Size is -1 when unknown.
type MediaFile struct {
	io.ReadCloser
	Name string
	Size int64
}

// Submission is the transfer payload of one upload.
type Submission struct {
	Media       *MediaFile
	Caption     string
	Filter      string
	ContentType domain.MediaKind
	Timestamp   time.Time
	Source      domain.SourceOrigin

	// OverlayData is nil when the draft has no overlays.
	OverlayData []byte
}

// HasOverlays reports whether an overlay manifest is attached.
func (s *Submission) HasOverlays() bool {
	return len(s.OverlayData) > 0
}

// FormField is a text field of the multipart request.
type FormField struct {
	Name  string
	Value string
}

// Fields returns the text fields in wire order. overlayData and
// requiresComposition are present only when overlays exist; source only when
// known.
func (s *Submission) Fields() []FormField {
	fields := []FormField{
		{FieldCaption, s.Caption},
		{FieldFilter, s.Filter},
		{FieldHasOverlays, strconv.FormatBool(s.HasOverlays())},
		{FieldContentType, string(s.ContentType)},
		{FieldTimestamp, strconv.FormatInt(s.Timestamp.UnixMilli(), 10)},
	}
	if s.Source != "" {
		fields = append(fields, FormField{FieldSource, string(s.Source)})
	}
	if s.HasOverlays() {
		fields = append(fields,
			FormField{FieldOverlayData, string(s.OverlayData)},
			FormField{FieldRequiresComposition, "true"},
		)
	}
	return fields
}

// PublishedStory is a story accepted by the receiving endpoint.
type PublishedStory struct {
	ID                  domain.StoryID      `json:"id"`
	Caption             string              `json:"caption"`
	Filter              string              `json:"filter,omitempty"`
	ContentType         domain.MediaKind    `json:"contentType"`
	Source              domain.SourceOrigin `json:"source,omitempty"`
	MediaName           string              `json:"mediaName"`
	MediaSize           int64               `json:"mediaSize"`
	CapturedAt          time.Time           `json:"capturedAt"`
	ReceivedAt          time.Time           `json:"receivedAt"`
	RequiresComposition bool                `json:"requiresComposition"`
	Overlays            *domain.Manifest    `json:"overlays,omitempty"`
}
