package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// applyEnvOverrides overrides config values with environment variables if set
// Returns error for invalid environment variable values to fail fast
func applyEnvOverrides(cfg *Config) error {
	// Endpoint
	if v := os.Getenv("STORY_ENDPOINT_URL"); v != "" {
		cfg.Endpoint.URL = v
	}
	if err := envDuration("STORY_ENDPOINT_TIMEOUT", &cfg.Endpoint.Timeout); err != nil {
		return err
	}

	// Capture
	if err := envDuration("STORY_CAPTURE_MAX_RECORDING", &cfg.Capture.MaxRecording); err != nil {
		return err
	}
	if err := envDuration("STORY_CAPTURE_TICK_INTERVAL", &cfg.Capture.TickInterval); err != nil {
		return err
	}
	if v := os.Getenv("STORY_CAPTURE_MODE"); v != "" {
		cfg.Capture.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("STORY_CAPTURE_FILTER"); ok {
		cfg.Capture.Filter = v
	}

	// Canvas
	if err := envFloat("STORY_CANVAS_WIDTH", &cfg.Canvas.Width); err != nil {
		return err
	}
	if err := envFloat("STORY_CANVAS_HEIGHT", &cfg.Canvas.Height); err != nil {
		return err
	}

	// Gallery
	if v := os.Getenv("STORY_GALLERY_DATABASE"); v != "" {
		cfg.Gallery.Database = v
	}
	if v := os.Getenv("STORY_GALLERY_MEDIA_DIR"); v != "" {
		cfg.Gallery.MediaDir = v
	}
	if v := os.Getenv("STORY_GALLERY_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STORY_GALLERY_PAGE_SIZE %q: %w", v, err)
		}
		cfg.Gallery.PageSize = n
	}

	// Upload
	if err := envDuration("STORY_UPLOAD_PROGRESS_INTERVAL", &cfg.Upload.ProgressInterval); err != nil {
		return err
	}

	// Log
	if v := os.Getenv("STORY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("STORY_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("STORY_LOG_CALLER"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STORY_LOG_CALLER %q: %w", v, err)
		}
		cfg.Log.Caller = b
	}

	// Server
	if v := os.Getenv("STORY_SERVER_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("STORY_SERVER_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid STORY_SERVER_MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		cfg.Server.MaxUploadBytes = n
	}
	if err := envFloat("STORY_SERVER_RATE_LIMIT", &cfg.Server.RateLimit); err != nil {
		return err
	}
	if v := os.Getenv("STORY_SERVER_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid STORY_SERVER_BURST %q: %w", v, err)
		}
		cfg.Server.Burst = n
	}

	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = d
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}

// parseBool parses boolean environment variables
// Accepts: "true", "1", "yes", "on" for true; "false", "0", "no", "off" for false
func parseBool(value string) (bool, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value %q", value)
	}
}
