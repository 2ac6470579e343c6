package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sufield/storyline/internal/adapters/outbound/httpclient"
)

func storiesCmd(g *globals) *cobra.Command {
	var endpoint string
	cmd := &cobra.Command{
		Use:   "stories",
		Short: "List the stories received by the endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url := g.cfg.Endpoint.URL
			if endpoint != "" {
				url = endpoint
			}
			client, err := httpclient.New(url, g.cfg.Endpoint.Timeout, nil)
			if err != nil {
				return err
			}
			stories, err := client.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(stories) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stories yet")
				return nil
			}

			t := newTableWriter("ID", "Type", "Source", "Caption", "Overlays", "Received")
			for _, s := range stories {
				overlays := 0
				if s.Overlays != nil {
					overlays = len(s.Overlays.Elements)
				}
				t.addRow(string(s.ID), string(s.ContentType), string(s.Source), s.Caption,
					strconv.Itoa(overlays), s.ReceivedAt.Local().Format(time.DateTime))
			}
			t.print(cmd.OutOrStdout())
			return nil
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "override endpoint.url")
	return cmd
}
