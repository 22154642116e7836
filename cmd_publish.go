package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"flowerstore-directory/models"
	"flowerstore-directory/services"
	"flowerstore-directory/storage"
	"flowerstore-directory/utils"
)

func newPublishCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Normalize the dataset and store it in PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			source := stringFlag(cmd, "dataset", a.cfg.DatasetPath)

			raw, err := storage.NewDatasetLoader(source).Load(ctx)
			if err != nil {
				return err
			}
			stores := services.NewNormalizer(a.logger).Normalize(raw)

			pg, err := storage.NewPostgresWriter(ctx, a.cfg.DSN(), &utils.RetryConfig{
				MaxAttempts: a.cfg.MaxRetries,
				BaseDelay:   2 * time.Second,
				Logger:      a.logger,
			})
			if err != nil {
				a.logger.Error("Make sure PostgreSQL is running: docker compose up -d")
				return err
			}
			defer pg.Close()

			if err := publish(ctx, pg, stores); err != nil {
				return err
			}
			a.logger.Info("[publish] Stored %d stores in PostgreSQL (table: flower_stores)", len(stores))

			dbStores, err := pg.FetchAll(ctx)
			if err != nil {
				a.logger.Error("[publish] Failed to read back stores for insights: %v", err)
				dbStores = stores
			}

			insights := services.NewInsightService(a.logger)
			insights.Print(os.Stdout, insights.Generate(dbStores))
			return nil
		},
	}
	cmd.Flags().String("dataset", "", "dataset path or http(s) URL (default DATASET_PATH)")
	return cmd
}

// publish hands stores to any StoreWriter, skipping an empty set.
func publish(ctx context.Context, w storage.StoreWriter, stores []*models.Store) error {
	if len(stores) == 0 {
		return errors.New("publish: no stores after normalization")
	}
	return w.Write(ctx, stores)
}
