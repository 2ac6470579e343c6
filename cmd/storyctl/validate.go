package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sufield/storyline/internal/config"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a storyline configuration file",
		Example: `  storyctl validate storyline.yaml

  # Use in CI pipelines
  storyctl validate config/dev.yaml && storyctl serve -c config/dev.yaml`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ %s is valid\n", args[0])

			t := newTableWriter("Setting", "Value")
			t.addRow("endpoint.url", cfg.Endpoint.URL)
			t.addRow("endpoint.timeout", cfg.Endpoint.Timeout.String())
			t.addRow("capture.mode", cfg.Capture.Mode)
			t.addRow("capture.max_recording", cfg.Capture.MaxRecording.String())
			t.addRow("canvas", fmt.Sprintf("%gx%g", cfg.Canvas.Width, cfg.Canvas.Height))
			t.addRow("gallery.database", cfg.Gallery.Database)
			t.addRow("gallery.page_size", strconv.Itoa(cfg.Gallery.PageSize))
			t.addRow("upload.progress_interval", cfg.Upload.ProgressInterval.String())
			t.addRow("server.listen_addr", cfg.Server.ListenAddr)
			t.print(out)
			return nil
		},
	}
}
