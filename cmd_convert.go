package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"flowerstore-directory/services"
	"flowerstore-directory/storage"
)

func newConvertCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert the raw CSV export into the dataset JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := stringFlag(cmd, "src", a.cfg.RawCSVPath)
			dst := stringFlag(cmd, "dst", a.cfg.DatasetPath)
			return a.convert(cmd.Context(), src, dst, !mustBool(cmd, "quiet"))
		},
	}
	cmd.Flags().String("src", "", "raw CSV path (default RAW_CSV_PATH)")
	cmd.Flags().String("dst", "", "dataset JSON path (default DATASET_PATH)")
	cmd.Flags().Bool("quiet", false, "skip the insight report")
	return cmd
}

// convert runs the converter and, when report is set, reads the written
// dataset back and prints the insight report over it.
func (a *app) convert(ctx context.Context, src, dst string, report bool) error {
	if _, err := services.NewConverter(a.logger).Run(src, dst); err != nil {
		return err
	}
	if !report {
		return nil
	}

	raw, err := storage.NewDatasetLoader(dst).Load(ctx)
	if err != nil {
		return err
	}
	stores := services.NewNormalizer(a.logger).Normalize(raw)
	insights := services.NewInsightService(a.logger)
	insights.Print(os.Stdout, insights.Generate(stores))
	return nil
}

func mustBool(cmd *cobra.Command, name string) bool {
	v, _ := cmd.Flags().GetBool(name)
	return v
}
