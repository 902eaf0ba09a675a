// backend/internal/seeder/seeder.go
package seeder

import (
	"errors"
	"fmt"

	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Options struct {
	IncludeTherapists bool
	DryRun            bool
}

// Result counts what a seeding run did
type Result struct {
	QuestionsCreated  int
	QuestionsSkipped  int
	TherapistsCreated int
	TherapistsSkipped int
}

// Seeder writes fixture content into the database. Runs are idempotent:
// questions are only seeded into an empty table and therapists are skipped
// when their email already exists.
type Seeder struct {
	repoManager *repository.RepositoryManager
	processor   *ContentProcessor
	logger      *logrus.Logger
}

func NewSeeder(repoManager *repository.RepositoryManager, logger *logrus.Logger) *Seeder {
	return &Seeder{
		repoManager: repoManager,
		processor:   NewContentProcessor(),
		logger:      logger,
	}
}

func (s *Seeder) Seed(fixture *Fixture, opts Options) (*Result, error) {
	result := &Result{}

	if err := s.seedQuestions(fixture.Questions, opts, result); err != nil {
		return result, err
	}

	if opts.IncludeTherapists {
		if err := s.seedTherapists(fixture.Therapists, opts, result); err != nil {
			return result, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"questions_created":  result.QuestionsCreated,
		"questions_skipped":  result.QuestionsSkipped,
		"therapists_created": result.TherapistsCreated,
		"therapists_skipped": result.TherapistsSkipped,
		"dry_run":            opts.DryRun,
	}).Info("Seeding finished")

	return result, nil
}

func (s *Seeder) seedQuestions(questions []QuestionFixture, opts Options, result *Result) error {
	count, err := s.repoManager.Question.Count()
	if err != nil {
		return fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		s.logger.WithField("existing", count).Info("Questions already present, skipping")
		result.QuestionsSkipped = len(questions)
		return nil
	}

	for _, qf := range questions {
		q := qf.toModel(s.processor)
		if err := q.Validate(); err != nil {
			return fmt.Errorf("invalid question %q: %w", qf.Text, err)
		}

		if opts.DryRun {
			s.logger.WithFields(logrus.Fields{
				"text":  q.QuestionText,
				"type":  q.QuestionType,
				"order": q.DisplayOrder,
			}).Info("Would create question")
			result.QuestionsCreated++
			continue
		}

		if err := s.repoManager.Question.Create(&q); err != nil {
			return fmt.Errorf("failed to create question %q: %w", qf.Text, err)
		}
		if qf.Inactive {
			if err := s.repoManager.Question.SetActive(q.ID, false); err != nil {
				return fmt.Errorf("failed to deactivate question %s: %w", q.ID, err)
			}
		}
		result.QuestionsCreated++
	}
	return nil
}

func (s *Seeder) seedTherapists(therapists []TherapistFixture, opts Options, result *Result) error {
	for _, tf := range therapists {
		t := tf.toModel(s.processor)
		if err := t.Validate(); err != nil {
			return fmt.Errorf("invalid therapist %q: %w", tf.Email, err)
		}

		_, err := s.repoManager.Therapist.GetByEmail(t.Email)
		switch {
		case err == nil:
			s.logger.WithField("email", t.Email).Debug("Therapist exists, skipping")
			result.TherapistsSkipped++
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("failed to look up therapist %s: %w", t.Email, err)
		}

		if opts.DryRun {
			s.logger.WithField("email", t.Email).Info("Would create therapist")
			result.TherapistsCreated++
			continue
		}

		if err := s.repoManager.Therapist.Create(&t); err != nil {
			return fmt.Errorf("failed to create therapist %s: %w", t.Email, err)
		}
		result.TherapistsCreated++
	}
	return nil
}
