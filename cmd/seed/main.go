// backend/cmd/seed/main.go
package main

import (
	"flag"
	"log"

	"github.com/Ayash-Bera/kuna/backend/internal/config"
	"github.com/Ayash-Bera/kuna/backend/internal/database"
	"github.com/Ayash-Bera/kuna/backend/internal/migration"
	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/Ayash-Bera/kuna/backend/internal/seeder"
	"github.com/Ayash-Bera/kuna/backend/pkg/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Command line flags
var (
	fixturePath = flag.String("file", "", "YAML fixture to load (default: built-in questionnaire)")
	dryRun      = flag.Bool("dry-run", false, "Don't insert seed rows, just print what would be created (the schema is still migrated)")
	therapists  = flag.Bool("therapists", false, "Also seed the demo therapists from the fixture")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	// Load environment variables
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

	logger.Info("Starting questionnaire seeder...")

	fixture, err := seeder.LoadFixture(*fixturePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load fixture")
	}

	// Redis is not needed for seeding
	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		LogLevel:    logger.GetLevel().String(),
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database manager")
	}
	defer dbManager.Close()

	if err := migration.NewRunner(dbManager.DB, logger).RunMigrations(""); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	s := seeder.NewSeeder(repository.NewRepositoryManager(dbManager.DB), logger)
	result, err := s.Seed(fixture, seeder.Options{
		IncludeTherapists: *therapists,
		DryRun:            *dryRun,
	})
	if err != nil {
		logger.WithError(err).Fatal("Seeding failed")
	}

	logger.WithFields(logrus.Fields{
		"questions":  result.QuestionsCreated,
		"therapists": result.TherapistsCreated,
	}).Info("Seeding completed successfully!")
}
