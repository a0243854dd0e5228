package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"iglikes/pkg/config"
	"iglikes/pkg/logger"
)

// app is what every command needs once the config is loaded
type app struct {
	cfg        *config.Config
	configPath string
	log        logger.Logger
}

func resolvedConfigPath() string {
	if configFile == "" {
		return config.DefaultPath
	}
	return configFile
}

// loadApp loads the config, builds the logger and prunes old log files.
// flags holds command-line overrides keyed as config.MergeCommandLineFlags
// expects.
func loadApp(cmd *cobra.Command, flags map[string]interface{}) (*app, error) {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = logLevel
	}

	path := resolvedConfigPath()
	cfg, err := config.Load(path, flags)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.LogDir != "" {
		removed, err := logger.CleanupOldLogs(cfg.LogDir, cfg.LogRetentionDays, time.Now())
		if err != nil {
			log.WithError(err).Warn("Failed to clean up old logs")
		} else if removed > 0 {
			log.WithField("removed", removed).Info("Removed old log files")
		}
	}

	log.WithFields(map[string]interface{}{
		"version": version,
		"command": cmd.Name(),
	}).Debug("iglikes starting")

	return &app{cfg: cfg, configPath: path, log: log}, nil
}
