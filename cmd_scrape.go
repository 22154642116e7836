package main

import (
	"errors"

	"github.com/spf13/cobra"

	"flowerstore-directory/models"
	"flowerstore-directory/scraper/gmaps"
	"flowerstore-directory/storage"
)

func newScrapeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a Maps search into the raw CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.ScrapeQuery = stringFlag(cmd, "query", a.cfg.ScrapeQuery)
			if rounds, _ := cmd.Flags().GetInt("rounds"); rounds > 0 {
				a.cfg.ScrollRounds = rounds
			}
			out := stringFlag(cmd, "out", a.cfg.RawCSVPath)

			places, err := gmaps.New(a.cfg, a.logger).Scrape(cmd.Context())
			if err != nil {
				return err
			}
			if len(places) == 0 {
				return errors.New("no places were scraped")
			}

			w, err := storage.NewScrapeCSVWriter(out)
			if err != nil {
				return err
			}
			if err := saveScraped(w, places); err != nil {
				return err
			}
			a.logger.Info("[gmaps] Raw CSV → %s (%d rows)", out, w.Rows())
			return nil
		},
	}
	cmd.Flags().String("query", "", "search text (default SCRAPE_QUERY)")
	cmd.Flags().String("out", "", "raw CSV path (default RAW_CSV_PATH)")
	cmd.Flags().Int("rounds", 0, "feed scroll rounds (default SCROLL_ROUNDS)")
	return cmd
}

func saveScraped(w storage.ScrapeWriter, places []*models.ScrapedPlace) error {
	if err := w.WriteScraped(places); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
