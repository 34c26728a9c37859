package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/logger"
)

var configFolder string

var rootCmd = &cobra.Command{
	Use:           "mindgames-api",
	Short:         "REST backend for the therapy games",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFolder, "config-folder", "config", "path to folder with configs")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(genJwtKeyCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

// loadConfig reads the config folder and initializes the global logger from it.
func loadConfig() *config.Config {
	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Log.Error("command failed", "error", err)
		os.Exit(1)
	}
}
