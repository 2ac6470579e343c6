// Package config loads the storyline configuration: a YAML file, then
// STORY_* environment overrides, then defaults, then validation.
package config

import "time"

// CurrentVersion is the config file format version.
const CurrentVersion = 1

// Config represents a storyline configuration file.
//
// The format is versioned to support future evolution without breaking changes.
type Config struct {
	// Version is the config file format version (optional, currently always 1)
	Version int `yaml:"version,omitempty"`

	Endpoint EndpointSection `yaml:"endpoint"`
	Capture  CaptureSection  `yaml:"capture"`
	Canvas   CanvasSection   `yaml:"canvas"`
	Gallery  GallerySection  `yaml:"gallery"`
	Upload   UploadSection   `yaml:"upload"`
	Log      LogSection      `yaml:"log"`
	Server   ServerSection   `yaml:"server"`
}

// EndpointSection is the story upload endpoint used by the client.
type EndpointSection struct {
	// URL receives the multipart POST, e.g. "http://127.0.0.1:8080/api/stories".
	URL string `yaml:"url"`

	// Timeout bounds a whole upload request. Go duration format: "30s".
	Timeout time.Duration `yaml:"timeout"`
}

// CaptureSection configures the camera source.
type CaptureSection struct {
	// MaxRecording is the hard cap handed to the recording primitive.
	MaxRecording time.Duration `yaml:"max_recording"`

	// TickInterval is the cadence of the elapsed-time counter shown while recording.
	TickInterval time.Duration `yaml:"tick_interval"`

	// Mode is "photo" or "video".
	Mode string `yaml:"mode"`

	// Filter is the initial filter tag carried on captured assets.
	Filter string `yaml:"filter"`
}

// CanvasSection is the editor canvas size in canvas units.
type CanvasSection struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// GallerySection configures the sqlite-backed media library.
type GallerySection struct {
	// Database is the sqlite file holding the library index.
	Database string `yaml:"database"`

	// MediaDir is the directory indexed by "gallery index".
	MediaDir string `yaml:"media_dir"`

	// PageSize is the number of assets listed per page.
	PageSize int `yaml:"page_size"`
}

// UploadSection tunes the upload pipeline.
type UploadSection struct {
	// ProgressInterval is the minimum spacing of progress callbacks within a
	// phase. Phase boundaries are always reported.
	ProgressInterval time.Duration `yaml:"progress_interval"`
}

// LogSection configures the logrus logger.
type LogSection struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Caller bool   `yaml:"caller"`
}

// ServerSection configures the development receiving endpoint.
type ServerSection struct {
	ListenAddr     string `yaml:"listen_addr"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`

	// RateLimit is requests per second per client address; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`

	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
}
