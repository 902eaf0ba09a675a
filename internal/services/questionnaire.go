// backend/internal/services/questionnaire.go
package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Ayash-Bera/kuna/backend/internal/matching"
	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Feedback from the results page reads "Selected from <display name>"
const (
	selectedFromMarker = "Selected from"
	selectedFromPrefix = selectedFromMarker + " "
)

// MatchProvider runs one model over the therapist pool
type MatchProvider interface {
	GetMatches(therapists []models.Therapist, answers map[string]interface{}, modelName string) ([]models.TherapistMatch, float64, error)
}

type QuestionnaireService struct {
	repoManager *repository.RepositoryManager
	matcher     MatchProvider
	modelNames  []string
	logger      *logrus.Logger
}

func NewQuestionnaireService(
	repoManager *repository.RepositoryManager,
	matcher MatchProvider,
	modelNames []string,
	logger *logrus.Logger,
) *QuestionnaireService {
	if len(modelNames) == 0 {
		modelNames = matching.DefaultModels
	}
	return &QuestionnaireService{
		repoManager: repoManager,
		matcher:     matcher,
		modelNames:  modelNames,
		logger:      logger,
	}
}

// ListQuestions returns the active questions in display order
func (s *QuestionnaireService) ListQuestions() ([]models.Question, error) {
	questions, err := s.repoManager.Question.GetActiveOrdered()
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}

// Submit stores a questionnaire and one result per configured model.
// A model that fails is recorded with no matches and zero processing time;
// the submission itself still succeeds.
func (s *QuestionnaireService) Submit(email string, answers map[string]interface{}) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", NewInvalidError("email is required")
	}
	if answers == nil {
		return "", NewInvalidError("answers are required")
	}

	therapists, err := s.repoManager.Therapist.GetActive()
	if err != nil {
		return "", fmt.Errorf("failed to load therapists: %w", err)
	}

	session := &models.ComparisonSession{
		Email:                email,
		QuestionnaireAnswers: answers,
	}

	results := make([]models.ModelResult, 0, len(s.modelNames))
	for _, modelName := range s.modelNames {
		matches, elapsed, err := s.matcher.GetMatches(therapists, answers, modelName)
		if err != nil {
			s.logger.WithError(err).WithField("model", modelName).Warn("Model failed, recording empty result")
			matches, elapsed = []models.TherapistMatch{}, 0
		}
		results = append(results, models.ModelResult{
			ModelName:        modelName,
			Matches:          matches,
			ProcessingTimeMs: elapsed,
		})
	}

	if err := s.repoManager.Comparison.CreateWithResults(session, results); err != nil {
		return "", fmt.Errorf("failed to store submission: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": session.ID,
		"therapists": len(therapists),
		"models":     len(results),
	}).Info("Questionnaire submitted")

	return session.ID, nil
}

// GetResults returns every model's matches for a session in model order
func (s *QuestionnaireService) GetResults(sessionID string) (*models.ComparisonResponse, error) {
	if _, err := s.repoManager.Comparison.GetByID(sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Session not found")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	results, err := s.repoManager.ModelResult.GetBySession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	if len(results) == 0 {
		return nil, NewNotFoundError("No results found for this session")
	}

	order := make(map[string]int, len(s.modelNames))
	for i, name := range s.modelNames {
		order[name] = i
	}
	rank := func(name string) int {
		if i, ok := order[name]; ok {
			return i
		}
		return len(order)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return rank(results[i].ModelName) < rank(results[j].ModelName)
	})

	response := &models.ComparisonResponse{
		ComparisonID: sessionID,
		Results:      make([]models.ModelResultResponse, 0, len(results)),
	}
	for _, r := range results {
		matches := []models.TherapistMatch(r.Matches)
		if matches == nil {
			matches = []models.TherapistMatch{}
		}
		response.Results = append(response.Results, models.ModelResultResponse{
			ModelName:        r.ModelName,
			DisplayName:      matching.DisplayName(r.ModelName),
			Matches:          matches,
			ProcessingTimeMs: r.ProcessingTimeMs,
		})
	}
	return response, nil
}

// SelectTherapist records the user's pick. The therapist id is stored as
// given and not checked against the session's matches.
func (s *QuestionnaireService) SelectTherapist(req models.UserSelectionRequest) error {
	if _, err := s.repoManager.Comparison.GetByID(req.SessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Session not found")
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	feedback := ""
	if req.Feedback != nil {
		feedback = *req.Feedback
	}

	selection := &models.UserSelection{
		ComparisonID:        req.SessionID,
		SelectedModel:       SelectedModelFromFeedback(feedback),
		SelectedTherapistID: req.SelectedTherapistID,
		Feedback:            feedback,
	}
	if err := s.repoManager.UserSelection.Create(selection); err != nil {
		return fmt.Errorf("failed to store selection: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":   req.SessionID,
		"therapist_id": req.SelectedTherapistID,
		"model":        selection.SelectedModel,
	}).Info("Therapist selected")
	return nil
}

// SelectedModelFromFeedback derives the legacy selected_model column
func SelectedModelFromFeedback(feedback string) string {
	if feedback == "" || !strings.Contains(feedback, selectedFromMarker) {
		return "unknown"
	}
	return strings.ReplaceAll(feedback, selectedFromPrefix, "")
}
