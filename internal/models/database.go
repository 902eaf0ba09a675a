package models

// GORM models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question types understood by the questionnaire frontend
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeScale          = "scale"
	QuestionTypeTextInput      = "text_input"
	QuestionTypeYesNo          = "yes_no"
)

// Commitment levels a therapist can declare on registration
var CommitmentLevels = []string{
	"Sesiones ocasionales / baja disponibilidad",
	"Sesiones constantes (2–5 pacientes fijos)",
	"Alta disponibilidad / puedo recibir varios pacientes nuevos por semana",
}

// MaxTherapeuticStyles is the number of style tags a therapist may pick
const MaxTherapeuticStyles = 2

// Question is an admin-authored questionnaire entry
type Question struct {
	ID           string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuestionText string                      `json:"question_text" gorm:"type:text;not null"`
	QuestionType string                      `json:"question_type" gorm:"not null"`
	Options      datatypes.JSONSlice[string] `json:"options"`
	IsActive     bool                        `json:"is_active" gorm:"default:true"`
	DisplayOrder int                         `json:"display_order"`
	CreatedAt    time.Time                   `json:"-"`
}

// Therapist is a self-registered therapist profile
type Therapist struct {
	ID                    string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name                  string                      `json:"name" gorm:"not null"`
	ProfessionalTitles    string                      `json:"professional_titles"`
	ProfessionalIDNumber  string                      `json:"professional_id_number"`
	Email                 string                      `json:"email" gorm:"uniqueIndex;not null"`
	Specialties           datatypes.JSONSlice[string] `json:"specialties"`
	TherapeuticApproaches datatypes.JSONSlice[string] `json:"therapeutic_approaches"`
	SessionPrice          float64                     `json:"session_price"`
	PriceNegotiable       bool                        `json:"price_negotiable" gorm:"default:false"`
	Country               string                      `json:"country"`
	City                  string                      `json:"city"`
	Remote                bool                        `json:"remote" gorm:"default:false"`
	OnSite                bool                        `json:"on_site" gorm:"default:false"`
	Hybrid                bool                        `json:"hybrid" gorm:"default:false"`
	Bio                   string                      `json:"bio" gorm:"type:text"`
	YearsExperience       int                         `json:"years_experience"`
	Languages             datatypes.JSONSlice[string] `json:"languages"`
	TherapeuticStyle      datatypes.JSONSlice[string] `json:"therapeutic_style"`
	AgeGroups             datatypes.JSONSlice[string] `json:"age_groups"`
	WeeklyAvailability    string                      `json:"weekly_availability" gorm:"type:text"`
	CommitmentLevel       string                      `json:"commitment_level"`
	AdditionalInfo        string                      `json:"additional_info" gorm:"type:text"`
	IsActive              bool                        `json:"is_active" gorm:"default:true"`
	CreatedAt             time.Time                   `json:"created_at"`
}

// ComparisonSession is one questionnaire submission
type ComparisonSession struct {
	ID                   string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email                string            `json:"email" gorm:"not null"`
	QuestionnaireAnswers datatypes.JSONMap `json:"questionnaire_answers" gorm:"not null"`
	CreatedAt            time.Time         `json:"created_at"`

	// Associations
	ModelResults   []ModelResult   `json:"-" gorm:"foreignKey:ComparisonID;constraint:OnDelete:CASCADE"`
	UserSelections []UserSelection `json:"-" gorm:"foreignKey:ComparisonID;constraint:OnDelete:CASCADE"`
}

// TherapistMatch is the therapist snapshot embedded in a ModelResult
type TherapistMatch struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	Specialties           []string `json:"specialties"`
	TherapeuticApproaches []string `json:"therapeutic_approaches"`
	SessionPrice          float64  `json:"session_price"`
	Country               string   `json:"country"`
	City                  string   `json:"city"`
	Remote                bool     `json:"remote"`
	OnSite                bool     `json:"on_site"`
	Bio                   string   `json:"bio"`
	MatchScore            float64  `json:"match_score"`
	MatchReason           string   `json:"match_reason"`
	ConfidenceScore       *float64 `json:"confidence_score"`
}

// ModelResult holds the matches one model produced for a session
type ModelResult struct {
	ID               string                              `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ComparisonID     string                              `json:"comparison_id" gorm:"type:varchar(36);index;not null"`
	ModelName        string                              `json:"model_name" gorm:"not null"`
	Matches          datatypes.JSONSlice[TherapistMatch] `json:"matches" gorm:"not null"`
	ProcessingTimeMs float64                             `json:"processing_time_ms"`
	CreatedAt        time.Time                           `json:"created_at"`
}

// UserSelection records the therapist a user picked after seeing results
type UserSelection struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ComparisonID        string    `json:"comparison_id" gorm:"type:varchar(36);index;not null"`
	SelectedModel       string    `json:"selected_model"` // legacy, derived from feedback
	SelectedTherapistID string    `json:"selected_therapist_id" gorm:"not null"`
	Feedback            string    `json:"feedback" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at"`
}

// SessionWithCounts is a session plus the number of its child records
type SessionWithCounts struct {
	ComparisonSession
	ModelResultsCount   int64
	UserSelectionsCount int64
}

// Database interfaces for repository pattern
type QuestionRepository interface {
	Create(question *Question) error
	GetActiveOrdered() ([]Question, error)
	GetAll() ([]Question, error)
	Count() (int64, error)
	SetActive(id string, active bool) error
}

type TherapistRepository interface {
	Create(therapist *Therapist) error
	GetByID(id string) (*Therapist, error)
	GetByEmail(email string) (*Therapist, error)
	GetActive() ([]Therapist, error)
	GetAll() ([]Therapist, error)
	Delete(id string) error
}

type ComparisonRepository interface {
	Create(session *ComparisonSession) error
	CreateWithResults(session *ComparisonSession, results []ModelResult) error
	GetByID(id string) (*ComparisonSession, error)
	GetAllWithCounts() ([]SessionWithCounts, error)
}

type ModelResultRepository interface {
	GetBySession(sessionID string) ([]ModelResult, error)
}

type UserSelectionRepository interface {
	Create(selection *UserSelection) error
	GetBySession(sessionID string) ([]UserSelection, error)
}

// TableName methods for custom table names
func (Question) TableName() string          { return "questions" }
func (Therapist) TableName() string         { return "therapists" }
func (ComparisonSession) TableName() string { return "model_comparisons" }
func (ModelResult) TableName() string       { return "model_results" }
func (UserSelection) TableName() string     { return "user_selections" }

// Model validation methods
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return fmt.Errorf("question text is required")
	}
	validTypes := map[string]bool{
		QuestionTypeMultipleChoice: true,
		QuestionTypeSingleChoice:   true,
		QuestionTypeScale:          true,
		QuestionTypeTextInput:      true,
		QuestionTypeYesNo:          true,
	}
	if !validTypes[q.QuestionType] {
		return fmt.Errorf("invalid question type: %s", q.QuestionType)
	}
	if q.QuestionType != QuestionTypeMultipleChoice && q.QuestionType != QuestionTypeSingleChoice && len(q.Options) > 0 {
		return fmt.Errorf("options are only allowed for choice questions")
	}
	return nil
}

func (t *Therapist) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(t.Email) == "" {
		return fmt.Errorf("email is required")
	}
	if len(t.TherapeuticStyle) > MaxTherapeuticStyles {
		return fmt.Errorf("at most %d therapeutic styles are allowed", MaxTherapeuticStyles)
	}
	if t.SessionPrice < 0 {
		return fmt.Errorf("session price cannot be negative")
	}
	if t.YearsExperience < 0 {
		return fmt.Errorf("years of experience cannot be negative")
	}
	if t.CommitmentLevel != "" && !IsCommitmentLevel(t.CommitmentLevel) {
		return fmt.Errorf("invalid commitment level: %s", t.CommitmentLevel)
	}
	return nil
}

func (ms *ModelResult) Validate() error {
	if ms.ComparisonID == "" {
		return fmt.Errorf("comparison ID is required")
	}
	if ms.ModelName == "" {
		return fmt.Errorf("model name is required")
	}
	return nil
}

// IsCommitmentLevel reports whether level is one of CommitmentLevels
func IsCommitmentLevel(level string) bool {
	for _, l := range CommitmentLevels {
		if l == level {
			return true
		}
	}
	return false
}

// GORM hooks
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return q.Validate()
}

func (t *Therapist) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return t.Validate()
}

func (s *ComparisonSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (ms *ModelResult) BeforeCreate(tx *gorm.DB) error {
	if ms.ID == "" {
		ms.ID = uuid.NewString()
	}
	if ms.Matches == nil {
		ms.Matches = datatypes.JSONSlice[TherapistMatch]{}
	}
	return ms.Validate()
}

func (us *UserSelection) BeforeCreate(tx *gorm.DB) error {
	if us.ID == "" {
		us.ID = uuid.NewString()
	}
	return nil
}
