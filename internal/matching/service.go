package matching

import (
	"fmt"
	"sort"
	"time"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultModels is the fixed set of models every submission is run against
var DefaultModels = []string{"gemini-2.5-flash-lite", "gemini-2.5-flash", RandomModel}

var displayNames = map[string]string{
	"gemini-2.5-flash-lite": "Model A",
	"gemini-2.5-flash":      "Model B",
	RandomModel:             "Model C",
}

// DisplayName hides the model identifier behind the blind label shown to users
func DisplayName(modelName string) string {
	if name, ok := displayNames[modelName]; ok {
		return name
	}
	return modelName
}

// Service dispatches a model name to its matcher and times the call
type Service struct {
	random Matcher
	scored Matcher
	logger *logrus.Logger
}

func NewService(random, scored Matcher, logger *logrus.Logger) *Service {
	return &Service{
		random: random,
		scored: scored,
		logger: logger,
	}
}

// NewDefaultService wires the random baseline and the scored stub with math/rand
func NewDefaultService(logger *logrus.Logger) *Service {
	return NewService(NewRandomMatcher(nil), NewScoredStubMatcher(nil), logger)
}

// GetMatches runs one model and returns its matches sorted by confidence
// (or match score when there is none), plus the elapsed time in milliseconds.
func (s *Service) GetMatches(therapists []models.Therapist, answers map[string]interface{}, modelName string) ([]models.TherapistMatch, float64, error) {
	start := time.Now()

	matcher := s.scored
	if modelName == RandomModel {
		matcher = s.random
	}

	matches, err := matcher.Match(therapists, answers, modelName)
	if err != nil {
		return nil, 0, fmt.Errorf("model %s: %w", modelName, err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return rankKey(matches[i]) > rankKey(matches[j])
	})

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	s.logger.WithFields(logrus.Fields{
		"model":      modelName,
		"therapists": len(therapists),
		"matches":    len(matches),
		"elapsed_ms": elapsed,
	}).Debug("Matching completed")

	return matches, elapsed, nil
}

func rankKey(m models.TherapistMatch) float64 {
	if m.ConfidenceScore != nil {
		return *m.ConfidenceScore
	}
	return m.MatchScore
}
