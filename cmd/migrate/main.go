package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/timeclock/backend/internal/infrastructure/config"
	"github.com/timeclock/backend/internal/infrastructure/logger"
	"github.com/timeclock/backend/internal/infrastructure/persistence"
)

// Applies the schema to the configured database and exits. The server runs
// the same migration on startup; this command exists for deploy pipelines
// that migrate before rolling instances.
func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration completed", zap.String("driver", cfg.Database.Driver))
}
