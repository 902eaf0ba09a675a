package testutil

import (
	"testing"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"gorm.io/gorm"
)

// NewTherapist returns a valid, active therapist with the given name and email
func NewTherapist(name, email string) models.Therapist {
	return models.Therapist{
		Name:                  name,
		Email:                 email,
		Specialties:           []string{"Ansiedad", "Depresión"},
		TherapeuticApproaches: []string{"Cognitivo-Conductual"},
		SessionPrice:          500,
		Country:               "México",
		City:                  "CDMX",
		Remote:                true,
		Bio:                   "Psicóloga clínica",
		YearsExperience:       8,
		Languages:             []string{"Español"},
		TherapeuticStyle:      []string{"Directivo"},
		AgeGroups:             []string{"Adultos"},
		IsActive:              true,
	}
}

// SeedTherapist inserts a therapist and returns it with its generated ID
func SeedTherapist(tb testing.TB, db *gorm.DB, name, email string) models.Therapist {
	tb.Helper()
	t := NewTherapist(name, email)
	if err := db.Create(&t).Error; err != nil {
		tb.Fatalf("failed to seed therapist: %v", err)
	}
	return t
}

// SeedQuestion inserts a question
func SeedQuestion(tb testing.TB, db *gorm.DB, text string, order int, active bool) models.Question {
	tb.Helper()
	q := models.Question{
		QuestionText: text,
		QuestionType: models.QuestionTypeSingleChoice,
		Options:      []string{"Sí", "No"},
		IsActive:     true,
		DisplayOrder: order,
	}
	if err := db.Create(&q).Error; err != nil {
		tb.Fatalf("failed to seed question: %v", err)
	}
	if !active {
		// default:true swallows a false zero value on insert
		if err := db.Model(&q).Update("is_active", false).Error; err != nil {
			tb.Fatalf("failed to deactivate question: %v", err)
		}
		q.IsActive = false
	}
	return q
}
