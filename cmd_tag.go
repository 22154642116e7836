package main

import (
	"github.com/spf13/cobra"

	"flowerstore-directory/services"
	"flowerstore-directory/storage"
)

func newTagCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag raw CSV rows with districts using road, override and coordinate rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			src := stringFlag(cmd, "src", a.cfg.RawCSVPath)
			out := stringFlag(cmd, "out", a.cfg.TaggedCSVPath)
			countsPath := stringFlag(cmd, "counts", a.cfg.DistrictCountsPath)
			rulesPath := stringFlag(cmd, "rules", a.cfg.DistrictRulesPath)

			rules, err := services.LoadTagRules(rulesPath)
			if err != nil {
				return err
			}

			_, counts, err := services.NewConverter(a.logger).Tag(services.NewTagger(rules), src, out)
			if err != nil {
				return err
			}
			if err := storage.WriteDataset(countsPath, counts); err != nil {
				return err
			}

			a.logger.Info("[tagger] Tagged CSV → %s | counts → %s", out, countsPath)
			return nil
		},
	}
	cmd.Flags().String("src", "", "raw CSV path (default RAW_CSV_PATH)")
	cmd.Flags().String("out", "", "tagged CSV path (default TAGGED_CSV_PATH)")
	cmd.Flags().String("counts", "", "district counts JSON path (default DISTRICT_COUNTS_PATH)")
	cmd.Flags().String("rules", "", "YAML district rules (default DISTRICT_RULES_PATH, built-in when empty)")
	return cmd
}
