package config

import "time"

// Default configuration values
const (
	DefaultEndpointURL      = "http://127.0.0.1:8080/api/stories"
	DefaultEndpointTimeout  = 30 * time.Second
	DefaultMaxRecording     = 15 * time.Second
	DefaultTickInterval     = time.Second
	DefaultCaptureMode      = "photo"
	DefaultCanvasWidth      = 390
	DefaultCanvasHeight     = 844
	DefaultGalleryDatabase  = "storyline.db"
	DefaultGalleryPageSize  = 30
	DefaultProgressInterval = 100 * time.Millisecond
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultListenAddr       = ":8080"
	DefaultMaxUploadBytes   = 64 << 20
	DefaultRateLimit        = 5
	DefaultBurst            = 10

	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 60 * time.Second
	DefaultWriteTimeout      = 60 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
)

// MaxRecordingLimit bounds capture.max_recording.
const MaxRecordingLimit = 60 * time.Second

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{Server: ServerSection{RateLimit: DefaultRateLimit}}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for unspecified configuration
func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = CurrentVersion
	}

	if cfg.Endpoint.URL == "" {
		cfg.Endpoint.URL = DefaultEndpointURL
	}
	if cfg.Endpoint.Timeout == 0 {
		cfg.Endpoint.Timeout = DefaultEndpointTimeout
	}

	if cfg.Capture.MaxRecording == 0 {
		cfg.Capture.MaxRecording = DefaultMaxRecording
	}
	if cfg.Capture.TickInterval == 0 {
		cfg.Capture.TickInterval = DefaultTickInterval
	}
	if cfg.Capture.Mode == "" {
		cfg.Capture.Mode = DefaultCaptureMode
	}

	if cfg.Canvas.Width == 0 {
		cfg.Canvas.Width = DefaultCanvasWidth
	}
	if cfg.Canvas.Height == 0 {
		cfg.Canvas.Height = DefaultCanvasHeight
	}

	if cfg.Gallery.Database == "" {
		cfg.Gallery.Database = DefaultGalleryDatabase
	}
	if cfg.Gallery.PageSize == 0 {
		cfg.Gallery.PageSize = DefaultGalleryPageSize
	}

	if cfg.Upload.ProgressInterval == 0 {
		cfg.Upload.ProgressInterval = DefaultProgressInterval
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.Server.Burst == 0 {
		cfg.Server.Burst = DefaultBurst
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
}
