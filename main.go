package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"flowerstore-directory/config"
	"flowerstore-directory/utils"
)

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "flowerdir",
		Short:         "Flower store directory: convert, tag, browse and publish listings",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			level := a.cfg.LogLevel
			if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
				level = f.Value.String()
			}
			a.logger = utils.NewLoggerWithLevel(level)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
	}
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	root.AddCommand(
		newConvertCmd(a),
		newTagCmd(a),
		newBrowseCmd(a),
		newWatchCmd(a),
		newScrapeCmd(a),
		newPublishCmd(a),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if a.logger != nil {
			a.logger.Error("%v", err)
		} else {
			os.Stderr.WriteString(err.Error() + "\n")
		}
		stop()
		os.Exit(1)
	}
}

// stringFlag returns the flag value when set, otherwise fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return fallback
}
