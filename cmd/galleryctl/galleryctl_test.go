package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func writeImage(t *testing.T, path string) {
	t.Helper()
	img := imaging.New(4, 2, color.NRGBA{R: 10, G: 120, B: 200, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

// galleryDir creates n valid PNGs (img00.png ...) plus the given broken files.
func galleryDir(t *testing.T, n int, broken ...string) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		writeImage(t, filepath.Join(dir, fmt.Sprintf("img%02d.png", i)))
	}
	for _, name := range broken {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("not an image"), 0o644))
	}
	return dir
}

// resetFlags clears values and Changed marks left by a previous Execute.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestListPrintsPage(t *testing.T) {
	dir := galleryDir(t, 5, "broken.png")

	out, _, err := execute(t, "list", "--dir", dir, "--page-size", "3", "--columns", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "! broken.png")
	assert.Contains(t, out, "img00.png")
	assert.Contains(t, out, "img01.png")
	assert.NotContains(t, out, "img02.png")
	assert.Contains(t, out, "Page 1 of 2 · 6 works · 1 could not be loaded")
}

func TestListSecondPage(t *testing.T) {
	dir := galleryDir(t, 5)

	out, _, err := execute(t, "list", "--dir", dir, "--page", "2", "--page-size", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "img03.png")
	assert.Contains(t, out, "img04.png")
	assert.NotContains(t, out, "img00.png")
	assert.Contains(t, out, "Page 2 of 2 · 5 works")
}

func TestListPageOutOfRange(t *testing.T) {
	dir := galleryDir(t, 2)

	out, errOut, err := execute(t, "list", "--dir", dir, "--page", "9")
	require.NoError(t, err)

	assert.Contains(t, errOut, "Page 9 does not exist, showing page 1")
	assert.Contains(t, out, "Page 1 of 1")
}

func TestListRejectsInvalidSettings(t *testing.T) {
	dir := galleryDir(t, 1)

	_, _, err := execute(t, "list", "--dir", dir, "--columns", "9")
	require.Error(t, err)
	assert.ErrorIs(t, err, gallery.ErrInvalidSettings)

	_, _, err = execute(t, "list", "--dir", dir, "--page-size", "7")
	assert.ErrorIs(t, err, gallery.ErrInvalidSettings)
}

func TestListEmptyGallery(t *testing.T) {
	out, _, err := execute(t, "list", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "The gallery is empty")
}

func TestThumbnailsExport(t *testing.T) {
	dir := galleryDir(t, 3, "zz-broken.jpg")
	outDir := filepath.Join(t.TempDir(), "thumbs")

	out, errOut, err := execute(t, "thumbnails", "--dir", dir, "--out", outDir)
	require.NoError(t, err)

	assert.Contains(t, out, "Wrote 3 thumbnails to "+outDir)
	assert.Contains(t, out, "(1 skipped)")
	assert.Contains(t, errOut, "Skipped zz-broken.jpg")

	for _, name := range []string{"img00.png.jpg", "img01.png.jpg", "img02.png.jpg"} {
		img, err := imaging.Open(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.Equal(t, img.Bounds().Dx(), img.Bounds().Dy(), "thumbnails are square")
	}
	assert.NoFileExists(t, filepath.Join(outDir, "zz-broken.jpg.jpg"))
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "galleryctl dev")
}

func TestPrintViewGrid(t *testing.T) {
	view := gallery.View{
		Settings: gallery.Settings{Columns: 2, PageSize: 3},
		Tiles: []gallery.Tile{
			{Name: "a.png"}, {Name: "b.png"}, {Name: "c.png"},
		},
		Total: 3,
		Label: "Page 1 of 1",
	}

	var buf bytes.Buffer
	require.NoError(t, printView(&buf, view, 80))
	assert.Equal(t, "a.png  b.png\nc.png\n\nPage 1 of 1 · 3 works\n", buf.String())
}

func TestTileName(t *testing.T) {
	assert.Equal(t, "short.png", tileName(gallery.Tile{Name: "short.png"}, 20))
	assert.Equal(t, "! bad.png", tileName(gallery.Tile{Name: "bad.png", Error: "decode"}, 20))
	assert.Equal(t, "a-long-…", tileName(gallery.Tile{Name: "a-long-name.png"}, 8))
}

func TestTerminalWidthDefaultsForPipes(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, defaultTermWidth, terminalWidth(&buf))
}
