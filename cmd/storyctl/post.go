package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/sufield/storyline/internal/adapters/inbound/cli"
	"github.com/sufield/storyline/internal/adapters/outbound/mediafs"
	"github.com/sufield/storyline/internal/app"
	"github.com/sufield/storyline/internal/config"
	"github.com/sufield/storyline/internal/domain"
)

type postOptions struct {
	caption  string
	texts    []string
	stickers []string
	endpoint string
	filter   string
	camera   bool
	mode     string
	record   time.Duration
}

func postCmd(g *globals) *cobra.Command {
	o := &postOptions{}
	cmd := &cobra.Command{
		Use:   "post [media-file]",
		Short: "Compose a story from a media file or the camera and upload it",
		Example: `  storyctl post beach.jpg --caption "day one" --text "Hello;style=neon;move=40,-30" --sticker 🔥
  storyctl post --camera --mode video --record 5s`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.camera == (len(args) == 1) {
				return errors.New("pass either a media file or --camera")
			}
			cfg := *g.cfg
			if o.endpoint != "" {
				cfg.Endpoint.URL = o.endpoint
			}
			if o.filter != "" {
				cfg.Capture.Filter = o.filter
			}
			if o.mode != "" {
				cfg.Capture.Mode = o.mode
			}
			if o.record > 0 {
				cfg.Capture.MaxRecording = o.record
			}
			if err := config.Validate(&cfg); err != nil {
				return err
			}

			plan, err := o.plan(args, cfg.Capture.Filter)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			out := cmd.OutOrStdout()
			a, err := app.Bootstrap(ctx, &cfg, app.WithRecordingTicker(func(elapsed time.Duration) {
				fmt.Fprintf(out, "recording %s\n", elapsed.Truncate(time.Second))
			}))
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if o.camera {
				if err := a.Flow.Capture(ctx); err != nil {
					return fmt.Errorf("capture: %w", err)
				}
			}

			_, err = cli.New(a.Flow, out, a.Logger).Run(ctx, plan)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.caption, "caption", "", "story caption")
	f.StringArrayVar(&o.texts, "text", nil, `text overlay "text;style=neon;color=#fff;move=dx,dy" (repeatable)`)
	f.StringArrayVar(&o.stickers, "sticker", nil, `sticker overlay "glyph;move=dx,dy" (repeatable)`)
	f.StringVar(&o.endpoint, "endpoint", "", "override endpoint.url")
	f.StringVar(&o.filter, "filter", "", "filter tag recorded on the asset")
	f.BoolVar(&o.camera, "camera", false, "capture from the camera instead of a file")
	f.StringVar(&o.mode, "mode", "", "camera capture mode: photo or video")
	f.DurationVar(&o.record, "record", 0, "maximum recording length in video mode")
	return cmd
}

// plan parses the overlay flags and, for a file, builds the gallery asset.
func (o *postOptions) plan(args []string, filter string) (cli.Plan, error) {
	plan := cli.Plan{Caption: o.caption}
	for _, raw := range o.texts {
		t, err := cli.ParseTextFlag(raw)
		if err != nil {
			return cli.Plan{}, err
		}
		plan.Texts = append(plan.Texts, t)
	}
	for _, raw := range o.stickers {
		s, err := cli.ParseStickerFlag(raw)
		if err != nil {
			return cli.Plan{}, err
		}
		plan.Stickers = append(plan.Stickers, s)
	}
	if len(args) == 0 {
		return plan, nil
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return cli.Plan{}, err
	}
	if _, err := os.Stat(path); err != nil {
		return cli.Plan{}, fmt.Errorf("media file: %w", err)
	}
	kind, ok := mediafs.KindFromName(path)
	if !ok {
		return cli.Plan{}, fmt.Errorf("media file %s: unsupported extension", args[0])
	}
	uri, err := mediafs.URIFromPath(path)
	if err != nil {
		return cli.Plan{}, err
	}
	plan.Asset, err = domain.NewCaptureAsset(uri, kind, domain.OriginGallery, filter)
	if err != nil {
		return cli.Plan{}, err
	}
	return plan, nil
}
