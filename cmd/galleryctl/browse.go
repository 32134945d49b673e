package main

import (
	"fmt"
	"os"
	"path/filepath"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/media"
	"portfolio-gallery/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseLogFile string

// browseCmd launches the interactive terminal gallery.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the gallery interactively",
	Long: `Browse the gallery page by page in the terminal. Use the arrow keys (or h/l)
to change pages, +/- to change the page size, [ and ] to change the number of
columns and r to rescan the image directory.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().StringVar(&browseLogFile, "log-file",
		filepath.Join(os.TempDir(), "galleryctl.log"), "where logs go while the browser owns the terminal")
}

func runBrowse(cmd *cobra.Command, _ []string) error {
	// Logs would corrupt the alternate screen.
	if file, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
		logging.Warn("Failed to open log file %s: %v", browseLogFile, err)
	} else {
		defer file.Close()
		logging.SetOutput(file)
		defer logging.SetOutput(os.Stderr)
	}

	normalizer, err := media.NewNormalizer(appConfig.Thumbnails)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail normalizer: %w", err)
	}
	scanner := media.NewScanner(appConfig.ImageDir)
	controller := gallery.NewController(scanner, normalizer)

	model := tui.New(cmd.Context(), controller, scanner, appConfig.DefaultSettings, appConfig.SiteTitle)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	_, err = program.Run()
	return err
}
