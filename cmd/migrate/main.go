// backend/cmd/migrate/main.go
package main

import (
	"flag"
	"log"

	"github.com/Ayash-Bera/kuna/backend/internal/config"
	"github.com/Ayash-Bera/kuna/backend/internal/database"
	"github.com/Ayash-Bera/kuna/backend/internal/migration"
	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	sqlDir      = flag.String("sql-dir", "", "Directory of .sql files to run after the schema migration")
	columnsOnly = flag.Bool("columns-only", false, "Only add missing therapist columns to an existing table")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := utils.NewLogger(cfg.Log.Level)
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		LogLevel:    logger.GetLevel().String(),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	runner := migration.NewRunner(dbManager.DB, logger)

	if *columnsOnly {
		added, err := runner.EnsureColumns()
		if err != nil {
			logger.WithError(err).Fatal("Column migration failed")
		}
		logger.WithField("added", added).Info("Therapist columns up to date")
		return
	}

	if err := runner.RunMigrations(*sqlDir); err != nil {
		logger.WithError(err).Fatal("Migration failed")
	}
}
