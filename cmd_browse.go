package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"flowerstore-directory/models"
	"flowerstore-directory/services"
	"flowerstore-directory/storage"
	"flowerstore-directory/ui"
)

func newBrowseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Load the dataset and show stores grouped by district",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			renderer := ui.NewRenderer(os.Stdout, !mustBool(cmd, "no-color"))

			source := stringFlag(cmd, "dataset", a.cfg.DatasetPath)
			dir, err := ui.Load(ctx, storage.NewDatasetLoader(source),
				services.NewNormalizer(a.logger), a.cfg.DebounceDelay())
			if err != nil {
				renderer.RenderLoadFailure(err)
				return fmt.Errorf("load %s: %w", source, err)
			}

			minRating, _ := cmd.Flags().GetFloat64("min-rating")
			q := models.Query{
				District:  stringFlag(cmd, "district", models.AllDistricts),
				MinRating: minRating,
				Keyword:   stringFlag(cmd, "keyword", ""),
				SortBy:    services.ParseSortKey(stringFlag(cmd, "sort", string(models.SortByRating))),
			}
			renderer.RenderView(dir.Apply(q))

			if !mustBool(cmd, "interactive") {
				return nil
			}
			return browseInteractive(ctx, dir, renderer, os.Stdin)
		},
	}
	cmd.Flags().String("dataset", "", "dataset path or http(s) URL (default DATASET_PATH)")
	cmd.Flags().String("district", models.AllDistricts, `district label, or "all"`)
	cmd.Flags().Float64("min-rating", 0, "minimum rating")
	cmd.Flags().String("keyword", "", "name or address substring")
	cmd.Flags().String("sort", string(models.SortByRating), "rating or reviews")
	cmd.Flags().Bool("interactive", false, "read keywords from stdin, one per line")
	cmd.Flags().Bool("no-color", false, "disable ANSI colors")
	return cmd
}

// browseInteractive treats each stdin line as a new keyword. Lines that
// arrive faster than the debounce delay collapse into one render.
func browseInteractive(ctx context.Context, dir *ui.Directory, renderer *ui.Renderer, in io.Reader) error {
	var mu sync.Mutex
	render := func(v models.View) {
		mu.Lock()
		defer mu.Unlock()
		renderer.RenderView(v)
	}

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			dir.CancelPending()
			return nil
		case line, ok := <-lines:
			if !ok {
				dir.FlushPending()
				select {
				case err := <-errc:
					return err
				default:
					return nil
				}
			}
			dir.SetKeyword(strings.TrimSpace(line), render)
		}
	}
}
