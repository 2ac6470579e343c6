package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/adapters/outbound/httpclient"
	"github.com/sufield/storyline/internal/adapters/outbound/inmemory"
	"github.com/sufield/storyline/internal/adapters/outbound/mediafs"
	"github.com/sufield/storyline/internal/adapters/outbound/sqlitelib"
	"github.com/sufield/storyline/internal/bg"
	"github.com/sufield/storyline/internal/config"
	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/domain"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/media"
	"github.com/sufield/storyline/internal/ports"
	"github.com/sufield/storyline/internal/upload"
)

// Application is the composition root that wires all dependencies of an
// authoring session.
type Application struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Flow     *Flow
	Camera   *media.Camera
	Gallery  *media.Gallery
	Pipeline *upload.Pipeline

	// Media holds in-memory captures; its mem:// uris are uploadable.
	Media *inmemory.MediaStore

	runner  bg.Runner
	closers []io.Closer
}

type options struct {
	logger   *logrus.Logger
	device   ports.CaptureDevice
	library  ports.MediaLibrary
	endpoint ports.StoryEndpoint
	notifier ports.RefreshNotifier
	runner   bg.Runner
	onTick   func(time.Duration)
}

// Option overrides one collaborator built by Bootstrap.
type Option func(*options)

// WithLogger uses l instead of building a logger from config.
func WithLogger(l *logrus.Logger) Option { return func(o *options) { o.logger = l } }

// WithDevice replaces the in-memory capture device.
func WithDevice(d ports.CaptureDevice) Option { return func(o *options) { o.device = d } }

// WithLibrary replaces the configured media library.
func WithLibrary(l ports.MediaLibrary) Option { return func(o *options) { o.library = l } }

// WithEndpoint replaces the HTTP story endpoint.
func WithEndpoint(e ports.StoryEndpoint) Option { return func(o *options) { o.endpoint = e } }

// WithNotifier receives the story-list refresh signal.
func WithNotifier(n ports.RefreshNotifier) Option { return func(o *options) { o.notifier = n } }

// WithRunner replaces the background runner.
func WithRunner(r bg.Runner) Option { return func(o *options) { o.runner = r } }

// WithRecordingTicker receives the elapsed time while recording.
func WithRecordingTicker(fn func(time.Duration)) Option { return func(o *options) { o.onTick = fn } }

// Bootstrap creates and wires all application components from a validated
// configuration.
//
// The gallery uses the sqlite index at cfg.Gallery.Database when that file
// exists and an empty in-memory library otherwise. Media uris with the file
// and mem schemes can be uploaded.
func Bootstrap(ctx context.Context, cfg *config.Config, opts ...Option) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	// Ensure we don't hang indefinitely if caller forgot a deadline
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// Step 1: logging
	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Debug:  debug.Active.Enabled,
			Caller: cfg.Log.Caller,
		})
		if err != nil {
			return nil, fmt.Errorf("build logger: %w", err)
		}
	}
	if debug.Active.Enabled {
		debug.InitLogger(logger)
	}

	a := &Application{
		Config: cfg,
		Logger: logger,
		Media:  inmemory.NewMediaStore(),
		runner: o.runner,
	}
	if a.runner == nil {
		a.runner = bg.New(debug.Active.SingleThreaded)
	}

	// Step 2: capture device and media library
	device := o.device
	if device == nil {
		device = inmemory.NewCamera(a.Media)
	}
	library := o.library
	if library == nil {
		lib, err := openLibrary(ctx, cfg.Gallery.Database, logger)
		if err != nil {
			return nil, err
		}
		if lib != nil {
			a.closers = append(a.closers, lib)
			library = lib
		} else {
			library = inmemory.NewLibrary()
		}
	}

	// Step 3: media sources
	mode, err := media.ParseCaptureMode(cfg.Capture.Mode)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	a.Camera = media.NewCamera(device, media.CameraConfig{
		MaxRecording: cfg.Capture.MaxRecording,
		TickInterval: cfg.Capture.TickInterval,
		OnTick:       o.onTick,
		Mode:         mode,
		Filter:       cfg.Capture.Filter,
		Logger:       logger,
	})
	a.Gallery = media.NewGallery(library, cfg.Gallery.PageSize, logger)

	// Step 4: upload pipeline
	endpoint := o.endpoint
	if endpoint == nil {
		client, err := httpclient.New(cfg.Endpoint.URL, cfg.Endpoint.Timeout, logger)
		if err != nil {
			a.closeAll()
			return nil, fmt.Errorf("story endpoint: %w", err)
		}
		endpoint = client
	}
	notifier := o.notifier
	if notifier == nil {
		notifier = ports.RefreshFunc(func() { logger.Info("story list changed") })
	}
	opener := mediafs.NewRouter()
	opener.Register(inmemory.Scheme, a.Media)

	a.Pipeline, err = upload.New(upload.Config{
		Endpoint:         endpoint,
		Opener:           opener,
		Notifier:         notifier,
		Runner:           a.runner,
		ProgressInterval: cfg.Upload.ProgressInterval,
		Logger:           logger,
	})
	if err != nil {
		a.closeAll()
		return nil, err
	}

	// Step 5: the session itself
	a.Flow, err = NewFlow(FlowConfig{
		Camera:     a.Camera,
		Gallery:    a.Gallery,
		Uploader:   a.Pipeline,
		CanvasSize: domain.Size{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height},
		Logger:     logger,
	})
	if err != nil {
		a.closeAll()
		return nil, err
	}
	return a, nil
}

func openLibrary(ctx context.Context, path string, logger logrus.FieldLogger) (*sqlitelib.Library, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.WithField("database", path).Debug("no gallery index, using empty library")
			return nil, nil
		}
		return nil, fmt.Errorf("gallery index: %w", err)
	}
	lib, err := sqlitelib.Open(ctx, path, logger)
	if err != nil {
		return nil, fmt.Errorf("gallery index: %w", err)
	}
	return lib, nil
}

// Close ends the session, waits for background signals and closes the
// library index.
func (a *Application) Close() error {
	var errs []error
	if a.Flow != nil {
		if err := a.Flow.CloseFlow(); err != nil {
			errs = append(errs, err)
		}
	}
	if g, ok := a.runner.(*bg.Group); ok {
		g.Wait()
	}
	errs = append(errs, a.closeAll())
	return errors.Join(errs...)
}

func (a *Application) closeAll() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
