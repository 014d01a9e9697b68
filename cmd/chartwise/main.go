package main

import (
	"fmt"
	"os"

	"github.com/raykavin/chartwise/internal/config"
	"github.com/raykavin/chartwise/pkg/logger"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	configFile string
	port       int

	// Upload command flags
	outputFormat string
	imageDir     string
	imageFormat  string
)

// Loaded before any command runs
var (
	cfg *config.Config
	log logger.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "chartwise",
		Short:             "Chart suggestions for tabular data",
		Version:           "1.0.0",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (yaml, json or toml)")

	rootCmd.AddCommand(buildUploadCmd(), buildServeCmd(), buildProduceCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	log, err = newLogger(os.Stderr, cfg.Log)
	return err
}
