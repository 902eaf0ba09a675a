package models

import "time"

type SubmitQuestionnaireRequest struct {
	Email   string                 `json:"email" binding:"required,email"`
	Answers map[string]interface{} `json:"answers" binding:"required"`
}

type SubmitQuestionnaireResponse struct {
	SessionID string `json:"session_id"`
}

type ModelResultResponse struct {
	ModelName        string           `json:"model_name"`
	DisplayName      string           `json:"display_name"`
	Matches          []TherapistMatch `json:"matches"`
	ProcessingTimeMs float64          `json:"processing_time_ms"`
}

type ComparisonResponse struct {
	ComparisonID string                `json:"comparison_id"`
	Results      []ModelResultResponse `json:"results"`
}

type UserSelectionRequest struct {
	SessionID           string  `json:"session_id" binding:"required"`
	SelectedTherapistID string  `json:"selected_therapist_id" binding:"required"`
	Feedback            *string `json:"feedback"`
}

type TherapistRegistrationRequest struct {
	Name                  string   `json:"name" binding:"required"`
	ProfessionalTitles    string   `json:"professional_titles"`
	ProfessionalIDNumber  string   `json:"professional_id_number"`
	Email                 string   `json:"email" binding:"required,email"`
	Specialties           []string `json:"specialties" binding:"required"`
	TherapeuticApproaches []string `json:"therapeutic_approaches" binding:"required"`
	SessionPrice          float64  `json:"session_price"`
	PriceNegotiable       bool     `json:"price_negotiable"`
	Country               string   `json:"country" binding:"required"`
	City                  string   `json:"city" binding:"required"`
	Remote                bool     `json:"remote"`
	OnSite                bool     `json:"on_site"`
	Hybrid                bool     `json:"hybrid"`
	Bio                   string   `json:"bio" binding:"required"`
	YearsExperience       int      `json:"years_experience"`
	Languages             []string `json:"languages" binding:"required"`
	TherapeuticStyle      []string `json:"therapeutic_style" binding:"required"`
	AgeGroups             []string `json:"age_groups" binding:"required"`
	WeeklyAvailability    string   `json:"weekly_availability"`
	CommitmentLevel       string   `json:"commitment_level"`
	AdditionalInfo        string   `json:"additional_info"`
}

// LoginRequest binds both form posts (the admin dashboard sends FormData) and JSON
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

type AdminUserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        AdminUserResponse `json:"user"`
}

// TherapistAdminView is the therapist listing shown on the admin dashboard
type TherapistAdminView struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Specialties           []string  `json:"specialties"`
	TherapeuticApproaches []string  `json:"therapeutic_approaches"`
	SessionPrice          float64   `json:"session_price"`
	Country               string    `json:"country"`
	City                  string    `json:"city"`
	Remote                bool      `json:"remote"`
	OnSite                bool      `json:"on_site"`
	Bio                   string    `json:"bio"`
	YearsExperience       int       `json:"years_experience"`
	Languages             []string  `json:"languages"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
}

func NewTherapistAdminView(t Therapist) TherapistAdminView {
	return TherapistAdminView{
		ID:                    t.ID,
		Name:                  t.Name,
		Email:                 t.Email,
		Specialties:           t.Specialties,
		TherapeuticApproaches: t.TherapeuticApproaches,
		SessionPrice:          t.SessionPrice,
		Country:               t.Country,
		City:                  t.City,
		Remote:                t.Remote,
		OnSite:                t.OnSite,
		Bio:                   t.Bio,
		YearsExperience:       t.YearsExperience,
		Languages:             t.Languages,
		IsActive:              t.IsActive,
		CreatedAt:             t.CreatedAt,
	}
}

type SessionSummary struct {
	ID                   string                 `json:"id"`
	Email                string                 `json:"email"`
	CreatedAt            time.Time              `json:"created_at"`
	QuestionnaireAnswers map[string]interface{} `json:"questionnaire_answers"`
	ModelResultsCount    int64                  `json:"model_results_count"`
	UserSelectionsCount  int64                  `json:"user_selections_count"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
