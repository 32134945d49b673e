package main

import (
	"fmt"
	"os"

	"portfolio-gallery/internal/logging"
	"portfolio-gallery/internal/startup"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	imageDir  string
	verbose   bool
	appConfig *startup.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "galleryctl",
	Short: "Inspect and browse a portfolio image gallery",
	Long: `galleryctl works on the same image directory and configuration as the
gallery server. Settings come from the config file, environment variables
(IMAGE_DIR, DEFAULT_COLUMNS, ...) and flags, in increasing priority.

Example usage:
  galleryctl browse
  galleryctl list --page 2 --page-size 6
  galleryctl thumbnails --out ./thumbs`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", os.Getenv("CONFIG_FILE"), "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVarP(&imageDir, "dir", "d", "", "image directory (overrides IMAGE_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initConfig reads the config file and environment, then applies flags.
func initConfig() error {
	if verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	v, err := startup.NewViper(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if imageDir != "" {
		v.Set(startup.KeyImageDir, imageDir)
	}

	appConfig, err = startup.FromViper(v)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Debug("Image directory: %s", appConfig.ImageDir)
	return nil
}
