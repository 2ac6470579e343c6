package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd(v VersionInfo) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// The version must print even when the environment config is broken.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "storyctl %s (commit: %s, built: %s)\n", v.Version, v.Commit, v.Date)
			if verbose {
				t := newTableWriter("Setting", "Value")
				t.addRow("Go", runtime.Version())
				t.addRow("Platform", runtime.GOOS+"/"+runtime.GOARCH)
				t.addRow("Config format", "v1 (YAML)")
				t.print(out)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verbose, "verbose", false, "show build and runtime details")
	return cmd
}
