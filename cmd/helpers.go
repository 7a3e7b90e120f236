package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/howdylabs/botkit-slack/internal/config"
	"github.com/howdylabs/botkit-slack/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `botkit-slack init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger; --verbose forces debug level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(level, cfg.Log.Development)
}
