package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Ayash-Bera/kuna/backend/internal/database"
	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// therapistColumns were added to the therapists table after its first release.
// Databases created before then get them through EnsureColumns.
var therapistColumns = []string{
	"ProfessionalTitles",
	"ProfessionalIDNumber",
	"PriceNegotiable",
	"Hybrid",
	"TherapeuticStyle",
	"AgeGroups",
	"WeeklyAvailability",
	"CommitmentLevel",
	"AdditionalInfo",
}

type Runner struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewRunner(db *gorm.DB, logger *logrus.Logger) *Runner {
	return &Runner{
		db:     db,
		logger: logger,
	}
}

// RunMigrations executes all pending migrations. migrationsPath may be empty.
func (r *Runner) RunMigrations(migrationsPath string) error {
	r.logger.Info("Starting database migrations...")

	// First run GORM auto-migrations
	if err := database.AutoMigrate(r.db); err != nil {
		return fmt.Errorf("GORM auto-migration failed: %w", err)
	}

	if _, err := r.EnsureColumns(); err != nil {
		return fmt.Errorf("column migration failed: %w", err)
	}

	// Then run SQL migrations
	if migrationsPath != "" {
		if err := r.runSQLMigrations(migrationsPath); err != nil {
			return fmt.Errorf("SQL migrations failed: %w", err)
		}
	}

	r.logger.Info("Database migrations completed successfully")
	return nil
}

// EnsureColumns adds any missing therapist column and returns the ones it added.
// Inside RunMigrations it follows AutoMigrate and finds nothing to do; run on its
// own (cmd/migrate -columns-only) it upgrades an existing therapists table
// without touching the rest of the schema.
func (r *Runner) EnsureColumns() ([]string, error) {
	migrator := r.db.Migrator()
	if !migrator.HasTable(&models.Therapist{}) {
		return nil, fmt.Errorf("therapists table does not exist")
	}

	var added []string
	for _, field := range therapistColumns {
		if migrator.HasColumn(&models.Therapist{}, field) {
			continue
		}
		if err := migrator.AddColumn(&models.Therapist{}, field); err != nil {
			return added, fmt.Errorf("failed to add column %s: %w", field, err)
		}
		r.logger.WithField("column", field).Info("Added therapist column")
		added = append(added, field)
	}

	if len(added) == 0 {
		r.logger.Debug("Therapist table already up to date")
	}
	return added, nil
}

func (r *Runner) runSQLMigrations(migrationsPath string) error {
	entries, err := os.ReadDir(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}

	sort.Strings(sqlFiles) // Ensure migrations run in order

	for _, fileName := range sqlFiles {
		if err := r.runSQLFile(filepath.Join(migrationsPath, fileName)); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", fileName, err)
		}
		r.logger.WithField("file", fileName).Info("Migration executed successfully")
	}

	return nil
}

func (r *Runner) runSQLFile(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	sqlContent := string(content)

	// Dollar-quoted bodies contain semicolons, run them as one statement
	if strings.Contains(sqlContent, "$") {
		r.logger.WithField("file", filepath.Base(filePath)).Debug("Executing SQL file with dollar-quoted functions")

		if err := r.db.Exec(removeComments(sqlContent)).Error; err != nil {
			return fmt.Errorf("failed to execute %s: %w", filepath.Base(filePath), err)
		}
		return nil
	}

	for i, stmt := range splitSQLStatements(sqlContent) {
		r.logger.WithFields(logrus.Fields{
			"file":      filepath.Base(filePath),
			"statement": i + 1,
		}).Debug("Executing SQL statement")

		if err := r.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to execute statement %d in %s: %w", i+1, filepath.Base(filePath), err)
		}
	}

	return nil
}

// removeComments drops full-line SQL comments
func removeComments(sql string) string {
	lines := strings.Split(sql, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// splitSQLStatements splits SQL content into individual statements
func splitSQLStatements(sql string) []string {
	lines := strings.Split(sql, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			cleanedLines = append(cleanedLines, line)
		}
	}

	statements := strings.Split(strings.Join(cleanedLines, " "), ";")

	var result []string
	for _, stmt := range statements {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}

	return result
}
