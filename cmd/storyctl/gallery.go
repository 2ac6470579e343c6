package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sufield/storyline/internal/adapters/outbound/sqlitelib"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/media"
)

func galleryCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage the media library index used by the gallery",
	}
	cmd.AddCommand(galleryIndexCmd(g), galleryListCmd(g))
	return cmd
}

func galleryIndexCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "index [dir]",
		Short: "Index photos and videos under dir (default gallery.media_dir)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := g.cfg.Gallery.MediaDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no directory given and gallery.media_dir is not set")
			}

			lib, err := openIndex(cmd.Context(), g)
			if err != nil {
				return err
			}
			defer func() { _ = lib.Close() }()

			n, err := lib.Index(cmd.Context(), dir)
			if err != nil {
				return err
			}
			total, err := lib.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d assets from %s (%d in %s)\n", n, dir, total, g.cfg.Gallery.Database)
			return nil
		},
	}
}

func galleryListCmd(g *globals) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of the library, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			lib, err := openIndex(ctx, g)
			if err != nil {
				return err
			}
			defer func() { _ = lib.Close() }()

			gallery := media.NewGallery(lib, g.cfg.Gallery.PageSize, nil)
			pager, err := gallery.Pages(ctx)
			if err != nil {
				return err
			}
			// Pages are fetched in order, as the gallery does when scrolling.
			for pager.Page() < page {
				_, more, err := pager.Next(ctx)
				if err != nil {
					return err
				}
				if !more {
					fmt.Fprintln(cmd.OutOrStdout(), "no assets on this page")
					return nil
				}
			}
			items, more, err := pager.Next(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no assets on this page")
				return nil
			}

			t := newTableWriter("URI", "Kind", "Modified")
			for _, it := range items {
				t.addRow(it.URI, string(it.Kind), it.ModifiedAt.Format(time.DateTime))
			}
			t.print(cmd.OutOrStdout())
			if more {
				fmt.Fprintf(cmd.OutOrStdout(), "more: storyctl gallery list --page %d\n", page+1)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page index")
	return cmd
}

func openIndex(ctx context.Context, g *globals) (*sqlitelib.Library, error) {
	logger, err := logging.New(logging.Options{Level: g.cfg.Log.Level, Format: g.cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	return sqlitelib.Open(ctx, g.cfg.Gallery.Database, logger)
}
