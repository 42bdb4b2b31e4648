package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/pixlet/internal/config"
	"github.com/ziadkadry99/pixlet/internal/db"
	"github.com/ziadkadry99/pixlet/internal/history"
	"github.com/ziadkadry99/pixlet/internal/navigation"
)

// loadConfig loads and validates the config and installs the logger as
// the slog default.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w\nRun `pixlet init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// openHistory opens the history database under the configured data dir.
func openHistory(cfg *config.Config) (*db.DB, *history.Store, error) {
	database, err := db.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, history.NewStore(database), nil
}

// newSystemNavigator returns a navigator that opens the local browser and
// records to store.
func newSystemNavigator(cfg *config.Config, store *history.Store, logger *slog.Logger) (*navigation.Navigator, error) {
	return navigation.New(cfg.Navigation(), navigation.SystemOpener{},
		navigation.WithRecorder(store),
		navigation.WithLogger(logger),
	)
}
