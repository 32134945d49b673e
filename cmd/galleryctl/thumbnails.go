package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"
	"portfolio-gallery/internal/workers"

	"github.com/spf13/cobra"
)

var thumbnailsOut string

// thumbnailsCmd writes every normalized thumbnail to a directory.
var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Write normalized JPEG thumbnails for every image",
	Long: `Write the letterboxed JPEG thumbnail of every image in the gallery to a
directory, as NAME.jpg next to each other. Images that cannot be decoded are
reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runThumbnails,
}

func init() {
	rootCmd.AddCommand(thumbnailsCmd)

	thumbnailsCmd.Flags().StringVarP(&thumbnailsOut, "out", "o", "thumbnails", "output directory")
}

// thumbnailResult summarizes a thumbnail export.
type thumbnailResult struct {
	Written int
	Skipped []string
}

func runThumbnails(cmd *cobra.Command, _ []string) error {
	normalizer, err := media.NewNormalizer(appConfig.Thumbnails)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail normalizer: %w", err)
	}
	cat, err := media.NewScanner(appConfig.ImageDir).Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", appConfig.ImageDir, err)
	}

	start := time.Now()
	result, err := exportThumbnails(cmd.Context(), normalizer, cat, thumbnailsOut)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, name := range result.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "Skipped %s: could not decode image\n", name)
	}
	fmt.Fprintf(out, "Wrote %d thumbnails to %s in %v (%d skipped)\n",
		result.Written, thumbnailsOut, time.Since(start).Round(time.Millisecond), len(result.Skipped))
	return nil
}

// exportThumbnails encodes cat on one goroutine per CPU. Decode failures
// are collected; write failures abort the export.
func exportThumbnails(ctx context.Context, normalizer *media.Normalizer, cat media.Catalog, dir string) (thumbnailResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return thumbnailResult{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		mu     sync.Mutex
		result thumbnailResult
	)

	err := workers.Each(ctx, workers.ForCPU(0), cat, func(_ context.Context, entry media.ImageEntry) error {
		data, err := normalizer.JPEG(entry.Path)
		if err != nil {
			if !media.IsDecodeError(err) {
				return err
			}
			logging.Warn("Skipping %s: %v", entry.Name, err)
			mu.Lock()
			result.Skipped = append(result.Skipped, entry.Name)
			mu.Unlock()
			return nil
		}

		dest := filepath.Join(dir, entry.Name+".jpg")
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dest, err)
		}
		logging.Debug("Wrote %s (%d bytes)", dest, len(data))

		mu.Lock()
		result.Written++
		mu.Unlock()
		return nil
	})
	if err != nil {
		return thumbnailResult{}, err
	}

	slices.Sort(result.Skipped)
	return result, nil
}
