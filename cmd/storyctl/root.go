package main

import (
	"github.com/spf13/cobra"

	"github.com/sufield/storyline/internal/config"
	"github.com/sufield/storyline/internal/debug"
)

// VersionInfo holds build-time version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// globals are the persistent flags plus the configuration they resolve to.
type globals struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd(v VersionInfo) *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "storyctl",
		Short:         "Author, publish and receive stories",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			debug.Init()
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if g.logLevel != "" {
				cfg.Log.Level = g.logLevel
				if err := config.Validate(cfg); err != nil {
					return err
				}
			}
			g.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (default: STORY_* environment)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override log.level: debug, info, warn, error")

	root.AddCommand(
		postCmd(g),
		serveCmd(g),
		galleryCmd(g),
		storiesCmd(g),
		validateCmd(),
		versionCmd(v),
	)
	return root
}
