package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

// Validate checks a fully defaulted configuration and reports the first
// invalid field.
//
// Ensures:
//   - endpoint.url is an absolute http(s) URL and endpoint.timeout is positive
//   - capture.max_recording is in (0, 60s] and capture.mode is photo or video
//   - canvas dimensions are strictly positive
//   - gallery.page_size is in [1, 500]
//   - log.level parses and log.format is text or json
//   - server.listen_addr is set, limits are positive, burst >= 1 when limiting
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if cfg.Version > CurrentVersion {
		return fmt.Errorf("config version %d is newer than supported version %d", cfg.Version, CurrentVersion)
	}

	u, err := url.Parse(cfg.Endpoint.URL)
	if err != nil {
		return fmt.Errorf("invalid endpoint.url %q: %w", cfg.Endpoint.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("endpoint.url %q must be an absolute http or https URL", cfg.Endpoint.URL)
	}
	if cfg.Endpoint.Timeout <= 0 {
		return errors.New("endpoint.timeout must be positive")
	}

	if cfg.Capture.MaxRecording <= 0 || cfg.Capture.MaxRecording > MaxRecordingLimit {
		return fmt.Errorf("capture.max_recording must be in (0, %s], got %s", MaxRecordingLimit, cfg.Capture.MaxRecording)
	}
	if cfg.Capture.TickInterval <= 0 {
		return errors.New("capture.tick_interval must be positive")
	}
	if cfg.Capture.Mode != "photo" && cfg.Capture.Mode != "video" {
		return fmt.Errorf("capture.mode must be photo or video, got %q", cfg.Capture.Mode)
	}

	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %gx%g", cfg.Canvas.Width, cfg.Canvas.Height)
	}

	if cfg.Gallery.PageSize < 1 || cfg.Gallery.PageSize > 500 {
		return fmt.Errorf("gallery.page_size must be in [1, 500], got %d", cfg.Gallery.PageSize)
	}
	if strings.TrimSpace(cfg.Gallery.Database) == "" {
		return errors.New("gallery.database must be set")
	}

	if cfg.Upload.ProgressInterval < 0 {
		return errors.New("upload.progress_interval must not be negative")
	}

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log.level: %w", err)
	}
	if f := strings.ToLower(cfg.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", cfg.Log.Format)
	}

	if cfg.Server.ListenAddr == "" {
		return errors.New("server.listen_addr must be set")
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	if cfg.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if cfg.Server.RateLimit > 0 && cfg.Server.Burst < 1 {
		return errors.New("server.burst must be at least 1 when rate limiting")
	}

	return nil
}
