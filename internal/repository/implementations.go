package repository

import (
	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionRepositoryImpl implements QuestionRepository
type QuestionRepositoryImpl struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) models.QuestionRepository {
	return &QuestionRepositoryImpl{db: db}
}

func (r *QuestionRepositoryImpl) Create(question *models.Question) error {
	return r.db.Create(question).Error
}

func (r *QuestionRepositoryImpl) GetActiveOrdered() ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Where("is_active = ?", true).
		Order("display_order").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepositoryImpl) GetAll() ([]models.Question, error) {
	var questions []models.Question
	err := r.db.Order("display_order").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepositoryImpl) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Question{}).Count(&count).Error
	return count, err
}

// SetActive toggles is_active explicitly, since a false zero value is
// replaced by the column default on insert
func (r *QuestionRepositoryImpl) SetActive(id string, active bool) error {
	result := r.db.Model(&models.Question{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TherapistRepositoryImpl implements TherapistRepository
type TherapistRepositoryImpl struct {
	db *gorm.DB
}

func NewTherapistRepository(db *gorm.DB) models.TherapistRepository {
	return &TherapistRepositoryImpl{db: db}
}

func (r *TherapistRepositoryImpl) Create(therapist *models.Therapist) error {
	return r.db.Create(therapist).Error
}

func (r *TherapistRepositoryImpl) GetByID(id string) (*models.Therapist, error) {
	var therapist models.Therapist
	err := r.db.Where("id = ?", id).First(&therapist).Error
	if err != nil {
		return nil, err
	}
	return &therapist, nil
}

func (r *TherapistRepositoryImpl) GetByEmail(email string) (*models.Therapist, error) {
	var therapist models.Therapist
	err := r.db.Where("email = ?", email).First(&therapist).Error
	if err != nil {
		return nil, err
	}
	return &therapist, nil
}

func (r *TherapistRepositoryImpl) GetActive() ([]models.Therapist, error) {
	var therapists []models.Therapist
	err := r.db.Where("is_active = ?", true).
		Order("created_at").
		Find(&therapists).Error
	return therapists, err
}

func (r *TherapistRepositoryImpl) GetAll() ([]models.Therapist, error) {
	var therapists []models.Therapist
	err := r.db.Order("created_at").Find(&therapists).Error
	return therapists, err
}

// Delete returns gorm.ErrRecordNotFound when no row matched
func (r *TherapistRepositoryImpl) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Therapist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ComparisonRepositoryImpl implements ComparisonRepository
type ComparisonRepositoryImpl struct {
	db *gorm.DB
}

func NewComparisonRepository(db *gorm.DB) models.ComparisonRepository {
	return &ComparisonRepositoryImpl{db: db}
}

func (r *ComparisonRepositoryImpl) Create(session *models.ComparisonSession) error {
	return r.db.Omit(clause.Associations).Create(session).Error
}

// CreateWithResults stores a session and its model results in a single transaction
func (r *ComparisonRepositoryImpl) CreateWithResults(session *models.ComparisonSession, results []models.ModelResult) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(session).Error; err != nil {
			return err
		}
		if len(results) == 0 {
			return nil
		}
		for i := range results {
			results[i].ComparisonID = session.ID
		}
		return tx.Create(&results).Error
	})
}

func (r *ComparisonRepositoryImpl) GetByID(id string) (*models.ComparisonSession, error) {
	var session models.ComparisonSession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

type childCount struct {
	ComparisonID string
	Total        int64
}

func (r *ComparisonRepositoryImpl) GetAllWithCounts() ([]models.SessionWithCounts, error) {
	var sessions []models.ComparisonSession
	if err := r.db.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}

	resultCounts, err := r.countBySession(&models.ModelResult{})
	if err != nil {
		return nil, err
	}
	selectionCounts, err := r.countBySession(&models.UserSelection{})
	if err != nil {
		return nil, err
	}

	out := make([]models.SessionWithCounts, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, models.SessionWithCounts{
			ComparisonSession:   s,
			ModelResultsCount:   resultCounts[s.ID],
			UserSelectionsCount: selectionCounts[s.ID],
		})
	}
	return out, nil
}

func (r *ComparisonRepositoryImpl) countBySession(model interface{}) (map[string]int64, error) {
	var rows []childCount
	err := r.db.Model(model).
		Select("comparison_id, COUNT(*) AS total").
		Group("comparison_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ComparisonID] = row.Total
	}
	return counts, nil
}

// ModelResultRepositoryImpl implements ModelResultRepository
type ModelResultRepositoryImpl struct {
	db *gorm.DB
}

func NewModelResultRepository(db *gorm.DB) models.ModelResultRepository {
	return &ModelResultRepositoryImpl{db: db}
}

func (r *ModelResultRepositoryImpl) GetBySession(sessionID string) ([]models.ModelResult, error) {
	var results []models.ModelResult
	err := r.db.Where("comparison_id = ?", sessionID).
		Order("created_at").
		Find(&results).Error
	return results, err
}

// UserSelectionRepositoryImpl implements UserSelectionRepository
type UserSelectionRepositoryImpl struct {
	db *gorm.DB
}

func NewUserSelectionRepository(db *gorm.DB) models.UserSelectionRepository {
	return &UserSelectionRepositoryImpl{db: db}
}

func (r *UserSelectionRepositoryImpl) Create(selection *models.UserSelection) error {
	return r.db.Create(selection).Error
}

func (r *UserSelectionRepositoryImpl) GetBySession(sessionID string) ([]models.UserSelection, error) {
	var selections []models.UserSelection
	err := r.db.Where("comparison_id = ?", sessionID).
		Order("created_at DESC").
		Find(&selections).Error
	return selections, err
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	Question      models.QuestionRepository
	Therapist     models.TherapistRepository
	Comparison    models.ComparisonRepository
	ModelResult   models.ModelResultRepository
	UserSelection models.UserSelectionRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		Question:      NewQuestionRepository(db),
		Therapist:     NewTherapistRepository(db),
		Comparison:    NewComparisonRepository(db),
		ModelResult:   NewModelResultRepository(db),
		UserSelection: NewUserSelectionRepository(db),
	}
}
