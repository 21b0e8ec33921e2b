package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/timmy/vidgrid/internal/app"
	"github.com/timmy/vidgrid/internal/domain"
	"github.com/timmy/vidgrid/internal/export"
	"github.com/timmy/vidgrid/internal/logger"
)

var (
	flagCSV       string
	flagOut       string
	flagFromSheet bool
	flagPublish   bool
	flagKey       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Convert the sheet export into data/videos.json",
	Long: `Reads the sheet (a local CSV export by default, or the configured sheet
endpoint with --from-sheet), drops rows without a title or url, and writes the
result as indented JSON. With --publish the file is also uploaded to object storage.`,
	Args: cobra.NoArgs,
	RunE: exportRun,
}

func init() {
	exportCmd.Flags().StringVar(&flagCSV, "csv", "", "CSV export path (default: export.csv_path)")
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Output JSON path (default: sources.file.path)")
	exportCmd.Flags().BoolVar(&flagFromSheet, "from-sheet", false, "Read from the configured sheet endpoint instead of a CSV file")
	exportCmd.Flags().BoolVar(&flagPublish, "publish", false, "Upload the result to object storage")
	exportCmd.Flags().StringVar(&flagKey, "key", "", "Object key for --publish (default: storage.key)")
}

func exportRun(cmd *cobra.Command, args []string) error {
	ctx := logger.SetRunID(logger.SetComponent(cmd.Context(), "sync"), uuid.NewString())

	recs, err := readRecords(ctx)
	if err != nil {
		return err
	}

	out := firstNonEmpty(flagOut, cfg.Sources.File.Path)
	data, err := export.WriteJSON(out, recs)
	if err != nil {
		return err
	}
	fmt.Printf("Written %d videos to %s\n", len(recs), out)

	if !flagPublish {
		return nil
	}
	if !cfg.Storage.IsConfigured() {
		return fmt.Errorf("--publish needs storage.endpoint and storage.bucket")
	}
	store, err := app.NewStorage(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("creating storage client: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return fmt.Errorf("preparing bucket: %w", err)
	}
	url, err := export.Publish(ctx, store, firstNonEmpty(flagKey, cfg.Storage.Key), data)
	if err != nil {
		return fmt.Errorf("publishing: %w", err)
	}
	fmt.Printf("Published to %s\n", url)
	return nil
}

func readRecords(ctx context.Context) ([]domain.VideoRecord, error) {
	if !flagFromSheet {
		return export.ReadCSV(firstNonEmpty(flagCSV, cfg.Export.CSVPath))
	}
	recs, err := app.NewSheetAdapter(&cfg.Sources.Sheet).Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	return recs, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
