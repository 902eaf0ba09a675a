// backend/internal/services/therapist.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const msgEmailRegistered = "Email already registered"

type TherapistService struct {
	repoManager *repository.RepositoryManager
	logger      *logrus.Logger
}

func NewTherapistService(repoManager *repository.RepositoryManager, logger *logrus.Logger) *TherapistService {
	return &TherapistService{
		repoManager: repoManager,
		logger:      logger,
	}
}

// Register creates an active therapist profile and returns its id.
// A registered email is a conflict whatever the other fields hold.
func (s *TherapistService) Register(req models.TherapistRegistrationRequest) (string, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || strings.TrimSpace(req.Name) == "" {
		return "", NewInvalidError("name and email are required")
	}

	_, err := s.repoManager.Therapist.GetByEmail(email)
	switch {
	case err == nil:
		return "", NewConflictError(msgEmailRegistered)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", fmt.Errorf("failed to check email: %w", err)
	}

	if len(req.TherapeuticStyle) > models.MaxTherapeuticStyles {
		return "", NewInvalidError(fmt.Sprintf("at most %d therapeutic styles are allowed", models.MaxTherapeuticStyles))
	}
	if req.SessionPrice < 0 || req.YearsExperience < 0 {
		return "", NewInvalidError("session price and years of experience cannot be negative")
	}
	if req.CommitmentLevel != "" && !models.IsCommitmentLevel(req.CommitmentLevel) {
		return "", NewInvalidError("invalid commitment level")
	}

	therapist := &models.Therapist{
		Name:                  strings.TrimSpace(req.Name),
		ProfessionalTitles:    req.ProfessionalTitles,
		ProfessionalIDNumber:  req.ProfessionalIDNumber,
		Email:                 email,
		Specialties:           req.Specialties,
		TherapeuticApproaches: req.TherapeuticApproaches,
		SessionPrice:          req.SessionPrice,
		PriceNegotiable:       req.PriceNegotiable,
		Country:               req.Country,
		City:                  req.City,
		Remote:                req.Remote,
		OnSite:                req.OnSite,
		Hybrid:                req.Hybrid,
		Bio:                   req.Bio,
		YearsExperience:       req.YearsExperience,
		Languages:             req.Languages,
		TherapeuticStyle:      req.TherapeuticStyle,
		AgeGroups:             req.AgeGroups,
		WeeklyAvailability:    req.WeeklyAvailability,
		CommitmentLevel:       req.CommitmentLevel,
		AdditionalInfo:        req.AdditionalInfo,
		IsActive:              true,
	}

	if err := s.repoManager.Therapist.Create(therapist); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", NewConflictError(msgEmailRegistered)
		}
		return "", fmt.Errorf("failed to register therapist: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"therapist_id": therapist.ID,
		"country":      therapist.Country,
	}).Info("Therapist registered")

	return therapist.ID, nil
}

// ListAll returns every therapist, active or not
func (s *TherapistService) ListAll() ([]models.TherapistAdminView, error) {
	therapists, err := s.repoManager.Therapist.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load therapists: %w", err)
	}

	views := make([]models.TherapistAdminView, 0, len(therapists))
	for _, t := range therapists {
		views = append(views, models.NewTherapistAdminView(t))
	}
	return views, nil
}

func (s *TherapistService) Delete(id string) error {
	if err := s.repoManager.Therapist.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Therapist not found")
		}
		return fmt.Errorf("failed to delete therapist: %w", err)
	}

	s.logger.WithField("therapist_id", id).Info("Therapist deleted")
	return nil
}
