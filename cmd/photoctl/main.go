// photoctl is the operational companion to the photo-gallery server:
// it imports directories of images into an uploads root and backfills
// missing derivatives for photos stored before WebP support existed.
package main

import (
	"fmt"
	"os"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/codec"
	"photo-gallery/internal/derivative"
	"photo-gallery/internal/importer"
	"photo-gallery/internal/ingest"
	"photo-gallery/internal/storage"
	"photo-gallery/internal/workers"

	"github.com/spf13/cobra"
)

var uploadsDir string

var rootCmd = &cobra.Command{
	Use:   "photoctl",
	Short: "Manage a photo-gallery uploads directory",
	Long: `photoctl operates directly on a photo-gallery uploads directory,
without going through the HTTP API. It can bulk-import images from a
source directory and backfill missing medium/WebP derivatives.`,
}

var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Import all images from a directory",
	Long: `Import scans a directory (non-recursive) for image files and copies
each one into the uploads directory, generating derivatives as it goes.
Files whose content is already stored are skipped. Source files are
left in place.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		result, err := p.importer.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d, skipped %d duplicates, %d errors (of %d candidates)\n",
			result.Imported, result.Skipped, len(result.Errors), result.Total)
		for _, fe := range result.Errors {
			fmt.Printf("  error: %s: %s\n", fe.File, fe.Reason)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d files failed to import", len(result.Errors))
		}
		return nil
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Generate missing medium/WebP derivatives for stored photos",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		result, err := p.generator.Backfill()
		if err != nil {
			return err
		}

		fmt.Printf("Converted %d, skipped %d already done, %d errors\n",
			result.Converted, result.Skipped, len(result.Errors))
		for _, be := range result.Errors {
			fmt.Printf("  error: %s: %s\n", be.File, be.Reason)
		}
		if len(result.Errors) > 0 {
			return fmt.Errorf("%d files failed to backfill", len(result.Errors))
		}
		return nil
	},
}

// pipeline bundles the pieces both subcommands need.
type pipeline struct {
	importer  *importer.Importer
	generator *derivative.Generator
}

func newPipeline() (*pipeline, error) {
	store, err := storage.New(uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open uploads directory %s: %w", uploadsDir, err)
	}

	adapter := codec.New()
	cat := catalog.New(store, adapter)
	generator := derivative.New(adapter, store)
	orchestrator := ingest.New(adapter, store, generator, cat, workers.DefaultLimit)

	return &pipeline{
		importer:  importer.New(orchestrator, store, workers.DefaultLimit),
		generator: generator,
	}, nil
}

func defaultUploadsDir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&uploadsDir, "uploads", "u", defaultUploadsDir(),
		"uploads directory (defaults to $UPLOADS_DIR or ./uploads)")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backfillCmd)

	if err := codec.InitVips(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: libvips unavailable, WebP derivatives disabled:", err)
	}
	err := rootCmd.Execute()
	codec.ShutdownVips()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
