package seeder

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture is the YAML document cmd/seed loads
type Fixture struct {
	Questions  []QuestionFixture  `yaml:"questions"`
	Therapists []TherapistFixture `yaml:"therapists"`
}

type QuestionFixture struct {
	Text    string   `yaml:"text"`
	Type    string   `yaml:"type"`
	Order   int      `yaml:"order"`
	Options []string `yaml:"options"`
	// Inactive questions are stored but not served
	Inactive bool `yaml:"inactive"`
}

type TherapistFixture struct {
	Name                  string   `yaml:"name"`
	ProfessionalTitles    string   `yaml:"professional_titles"`
	ProfessionalIDNumber  string   `yaml:"professional_id_number"`
	Email                 string   `yaml:"email"`
	Specialties           []string `yaml:"specialties"`
	TherapeuticApproaches []string `yaml:"therapeutic_approaches"`
	SessionPrice          float64  `yaml:"session_price"`
	PriceNegotiable       bool     `yaml:"price_negotiable"`
	Country               string   `yaml:"country"`
	City                  string   `yaml:"city"`
	Remote                bool     `yaml:"remote"`
	OnSite                bool     `yaml:"on_site"`
	Hybrid                bool     `yaml:"hybrid"`
	Bio                   string   `yaml:"bio"`
	YearsExperience       int      `yaml:"years_experience"`
	Languages             []string `yaml:"languages"`
	TherapeuticStyle      []string `yaml:"therapeutic_style"`
	AgeGroups             []string `yaml:"age_groups"`
	WeeklyAvailability    string   `yaml:"weekly_availability"`
	CommitmentLevel       string   `yaml:"commitment_level"`
	AdditionalInfo        string   `yaml:"additional_info"`
}

// DefaultFixture returns the fixture compiled into the binary
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// LoadFixture reads a fixture file, or the built-in one when path is empty
func LoadFixture(path string) (*Fixture, error) {
	if path == "" {
		return DefaultFixture()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

func (q QuestionFixture) toModel(p *ContentProcessor) models.Question {
	return models.Question{
		QuestionText: p.CleanText(q.Text),
		QuestionType: q.Type,
		Options:      p.CleanList(q.Options),
		IsActive:     !q.Inactive,
		DisplayOrder: q.Order,
	}
}

func (t TherapistFixture) toModel(p *ContentProcessor) models.Therapist {
	return models.Therapist{
		Name:                  p.CleanText(t.Name),
		ProfessionalTitles:    p.CleanText(t.ProfessionalTitles),
		ProfessionalIDNumber:  p.CleanText(t.ProfessionalIDNumber),
		Email:                 p.NormalizeEmail(t.Email),
		Specialties:           p.CleanList(t.Specialties),
		TherapeuticApproaches: p.CleanList(t.TherapeuticApproaches),
		SessionPrice:          t.SessionPrice,
		PriceNegotiable:       t.PriceNegotiable,
		Country:               p.CleanText(t.Country),
		City:                  p.CleanText(t.City),
		Remote:                t.Remote,
		OnSite:                t.OnSite,
		Hybrid:                t.Hybrid,
		Bio:                   p.CleanText(t.Bio),
		YearsExperience:       t.YearsExperience,
		Languages:             p.CleanList(t.Languages),
		TherapeuticStyle:      p.CleanList(t.TherapeuticStyle),
		AgeGroups:             p.CleanList(t.AgeGroups),
		WeeklyAvailability:    p.CleanText(t.WeeklyAvailability),
		CommitmentLevel:       p.CleanText(t.CommitmentLevel),
		AdditionalInfo:        p.CleanText(t.AdditionalInfo),
		IsActive:              true,
	}
}
