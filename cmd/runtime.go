package cmd

import (
	"strings"

	"go.uber.org/zap"

	"shiftlog/config"
	"shiftlog/internal/logging"
	"shiftlog/storage"
)

// loadConfig validates the active configuration. A non-empty dbPath overrides
// storage.path for this run.
func loadConfig(dbPath string) (*config.Config, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dbPath) != "" {
		cfg.Storage.Path = dbPath
	}
	return cfg, nil
}

func openStore(cfg *config.Config) (storage.Store, error) {
	return storage.Open(cfg.Storage)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Log)
}
