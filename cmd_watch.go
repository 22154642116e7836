package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"flowerstore-directory/utils"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the conversion whenever the raw CSV changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := stringFlag(cmd, "src", a.cfg.RawCSVPath)
			dst := stringFlag(cmd, "dst", a.cfg.DatasetPath)
			return a.watch(cmd.Context(), src, dst)
		},
	}
	cmd.Flags().String("src", "", "raw CSV path (default RAW_CSV_PATH)")
	cmd.Flags().String("dst", "", "dataset JSON path (default DATASET_PATH)")
	return cmd
}

// watch converts once, then watches the CSV's directory and converts
// again after each burst of writes to the CSV settles.
func (a *app) watch(ctx context.Context, src, dst string) error {
	convert := func() {
		if err := a.convert(ctx, src, dst, false); err != nil {
			a.logger.Error("[watch] Conversion failed: %v", err)
		}
	}
	convert()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory, not the file.
	if err := watcher.Add(filepath.Dir(src)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(src), err)
	}
	a.logger.Info("[watch] Watching %s (debounce %v)", src, a.cfg.DebounceDelay())

	return runWatchLoop(ctx, watcher, src, utils.NewDebouncer(a.cfg.DebounceDelay()), convert, a.logger)
}

// runWatchLoop feeds matching events for target into the debouncer until
// ctx is done or the watcher closes.
func runWatchLoop(ctx context.Context, w *fsnotify.Watcher, target string, d *utils.Debouncer, onChange func(), logger *utils.Logger) error {
	target = filepath.Clean(target)
	defer d.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("[watch] %s %s", ev.Op, ev.Name)
			d.Trigger(onChange)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("[watch] Watcher error: %v", err)
		}
	}
}
