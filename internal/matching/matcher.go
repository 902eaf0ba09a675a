package matching

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
)

// RandomModel is the control-group model name
const RandomModel = "random"

// RandomReason is attached to every control-group match
const RandomReason = "Randomly selected as control group"

var litePool = [4]string{
	"Especialización en ansiedad y técnicas de CBT coinciden con tus necesidades reportadas",
	"Experiencia en terapia de pareja y enfoque humanístico se alinea con tus preferencias",
	"Ubicación y disponibilidad remota satisfacen tus criterios geográficos",
	"Años de experiencia y especialidades en depresión son ideales para tu perfil",
}

var flashPool = [4]string{
	"Análisis avanzado sugiere alta compatibilidad basada en tu perfil psicológico",
	"Algoritmo de matching identifica convergencia en enfoque terapéutico y necesidades específicas",
	"Modelo predictivo indica probabilidad elevada de éxito terapéutico",
	"Correlación óptima entre especialidades del terapeuta y tus respuestas del cuestionario",
}

// Matcher produces therapist matches for a questionnaire
type Matcher interface {
	Match(therapists []models.Therapist, answers map[string]interface{}, modelName string) ([]models.TherapistMatch, error)
}

// IntN returns a uniform int in [0, n)
type IntN func(n int) int

// RandomMatcher is the control group: one therapist picked uniformly with a 1-100 score
type RandomMatcher struct {
	intn IntN
}

func NewRandomMatcher(intn IntN) *RandomMatcher {
	if intn == nil {
		intn = rand.IntN
	}
	return &RandomMatcher{intn: intn}
}

func (m *RandomMatcher) Match(therapists []models.Therapist, _ map[string]interface{}, _ string) ([]models.TherapistMatch, error) {
	if len(therapists) == 0 {
		return []models.TherapistMatch{}, nil
	}

	t := therapists[m.intn(len(therapists))]
	match := snapshot(t)
	match.MatchScore = float64(between(m.intn, 1, 100))
	match.MatchReason = RandomReason
	return []models.TherapistMatch{match}, nil
}

// ScoredStubMatcher stands in for the AI-labelled models. It makes no
// network call: the therapist is drawn uniformly and the score, confidence
// and reason are synthetic.
type ScoredStubMatcher struct {
	intn     IntN
	fallback *RandomMatcher
}

func NewScoredStubMatcher(intn IntN) *ScoredStubMatcher {
	if intn == nil {
		intn = rand.IntN
	}
	return &ScoredStubMatcher{intn: intn, fallback: NewRandomMatcher(intn)}
}

func (m *ScoredStubMatcher) Match(therapists []models.Therapist, answers map[string]interface{}, modelName string) ([]models.TherapistMatch, error) {
	matches, err := m.score(therapists, modelName)
	if err != nil {
		return m.fallback.Match(therapists, answers, modelName)
	}
	return matches, nil
}

func (m *ScoredStubMatcher) score(therapists []models.Therapist, modelName string) (matches []models.TherapistMatch, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scored matcher panicked: %v", r)
		}
	}()

	if len(therapists) == 0 {
		return []models.TherapistMatch{}, nil
	}

	pool := flashPool
	if strings.Contains(strings.ToLower(modelName), "lite") {
		pool = litePool
	}

	selected := []models.Therapist{therapists[m.intn(len(therapists))]}
	matches = make([]models.TherapistMatch, 0, len(selected))
	for i, t := range selected {
		confidence := float64(between(m.intn, 75, 95))
		match := snapshot(t)
		match.MatchScore = float64(between(m.intn, 80, 95))
		match.MatchReason = pool[i%len(pool)]
		match.ConfidenceScore = &confidence
		matches = append(matches, match)
	}
	return matches, nil
}

// between returns a uniform int in [lo, hi]
func between(intn IntN, lo, hi int) int {
	return lo + intn(hi-lo+1)
}

func snapshot(t models.Therapist) models.TherapistMatch {
	return models.TherapistMatch{
		ID:                    t.ID,
		Name:                  t.Name,
		Specialties:           t.Specialties,
		TherapeuticApproaches: t.TherapeuticApproaches,
		SessionPrice:          t.SessionPrice,
		Country:               t.Country,
		City:                  t.City,
		Remote:                t.Remote,
		OnSite:                t.OnSite,
		Bio:                   t.Bio,
	}
}
