package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/media"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultTermWidth = 80

var (
	listPage     int
	listPageSize int
	listColumns  int
)

// listCmd prints one gallery page as a grid of file names.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of the gallery",
	Long: `Print one page of the gallery as a grid of file names, laid out the way the
web viewer lays out thumbnails. Images that cannot be decoded are marked.

Examples:
  galleryctl list
  galleryctl list --page 3
  galleryctl list --page-size 6 --columns 2`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "page to print, starting at 1")
	listCmd.Flags().IntVarP(&listPageSize, "page-size", "n", 0, "images per page (default from config)")
	listCmd.Flags().IntVar(&listColumns, "columns", 0, "grid columns (default from config)")
}

func runList(cmd *cobra.Command, _ []string) error {
	settings := appConfig.DefaultSettings
	if cmd.Flags().Changed("page-size") {
		settings.PageSize = listPageSize
	}
	if cmd.Flags().Changed("columns") {
		settings.Columns = listColumns
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	normalizer, err := media.NewNormalizer(appConfig.Thumbnails)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail normalizer: %w", err)
	}
	controller := gallery.NewController(media.NewScanner(appConfig.ImageDir), normalizer)

	requested := gallery.State{Page: listPage - 1}
	state, view, err := controller.Render(cmd.Context(), requested, settings)
	if err != nil {
		return err
	}
	if state != requested && !view.Empty {
		fmt.Fprintf(cmd.ErrOrStderr(), "Page %d does not exist, showing page %d\n", listPage, state.Page+1)
	}

	return printView(cmd.OutOrStdout(), view, terminalWidth(cmd.OutOrStdout()))
}

// printView writes the grid, then the page label and totals.
func printView(out io.Writer, view gallery.View, width int) error {
	if view.Empty {
		_, err := fmt.Fprintln(out, "The gallery is empty. Add .webp, .png or .jpg files to the image directory.")
		return err
	}

	cols := max(view.Settings.Columns, 1)
	cell := max(width/cols-2, 8)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range view.Rows() {
		names := make([]string, len(row))
		for i, t := range row {
			names[i] = tileName(t, cell)
		}
		fmt.Fprintln(tw, strings.Join(names, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\n%s · %d works", view.Label, view.Total)
	if err == nil && view.Failures() > 0 {
		_, err = fmt.Fprintf(out, " · %d could not be loaded", view.Failures())
	}
	if err == nil {
		_, err = fmt.Fprintln(out)
	}
	return err
}

func tileName(t gallery.Tile, width int) string {
	name := t.Name
	if t.Failed() {
		name = "! " + name
	}
	r := []rune(name)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	return name
}

// terminalWidth returns the width of out when it is a terminal.
func terminalWidth(out io.Writer) int {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTermWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}
