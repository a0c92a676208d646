package main

import (
	"fmt"
	"io"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
	"github.com/spf13/cobra"
	"github.com/user/career-survival/config"
	"github.com/user/career-survival/internal/game"
	"github.com/user/career-survival/internal/interfaces"
	"github.com/user/career-survival/internal/persistence"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath  string
	catalogPath string
)

var rootCmd = &cobra.Command{
	Use:           "career-survival",
	Short:         "Turn-based career survival game server",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config/config.json", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to a YAML content catalog, defaults to the built-in one")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func loadCatalog() (*game.Catalog, error) {
	if catalogPath == "" {
		return game.DefaultCatalog()
	}
	return game.LoadCatalogFile(catalogPath)
}

// openStore opens the record store named by the database driver. The
// returned closer releases it.
func openStore(cfg config.DatabaseConfig) (interfaces.Store, io.Closer, error) {
	switch cfg.Driver {
	case "sqlite3", "":
		store, err := persistence.OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "file":
		store, err := persistence.OpenFileStore(cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	case "memory":
		return game.NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
