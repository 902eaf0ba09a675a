// backend/internal/services/admin.go
package services

import (
	"fmt"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/sirupsen/logrus"
)

type AdminService struct {
	repoManager *repository.RepositoryManager
	logger      *logrus.Logger
}

func NewAdminService(repoManager *repository.RepositoryManager, logger *logrus.Logger) *AdminService {
	return &AdminService{
		repoManager: repoManager,
		logger:      logger,
	}
}

// ListSessions returns every session, newest first, with child record counts
func (s *AdminService) ListSessions() ([]models.SessionSummary, error) {
	sessions, err := s.repoManager.Comparison.GetAllWithCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	summaries := make([]models.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		summaries = append(summaries, models.SessionSummary{
			ID:                   session.ID,
			Email:                session.Email,
			CreatedAt:            session.CreatedAt,
			QuestionnaireAnswers: session.QuestionnaireAnswers,
			ModelResultsCount:    session.ModelResultsCount,
			UserSelectionsCount:  session.UserSelectionsCount,
		})
	}

	s.logger.WithField("sessions", len(summaries)).Debug("Listed sessions")
	return summaries, nil
}
