package services

import (
	"errors"
	"testing"

	"github.com/Ayash-Bera/kuna/backend/internal/matching"
	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/Ayash-Bera/kuna/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *repository.RepositoryManager) {
	db := testutil.DB(t)
	return db, repository.NewRepositoryManager(db)
}

func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %v", err)
	assert.Equal(t, code, se.Code)
}

func TestSubmit_OneResultPerModel(t *testing.T) {
	db, repos := setup(t)
	therapist := testutil.SeedTherapist(t, db, "Ana", "ana@example.com")

	svc := NewQuestionnaireService(repos, matching.NewDefaultService(testutil.Logger(t)), nil, testutil.Logger(t))

	sessionID, err := svc.Submit("a@b.com", map[string]interface{}{"q1": "yes"})
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	resp, err := svc.GetResults(sessionID)
	require.NoError(t, err)
	assert.Equal(t, sessionID, resp.ComparisonID)
	require.Len(t, resp.Results, 3)

	for i, want := range []string{"Model A", "Model B", "Model C"} {
		r := resp.Results[i]
		assert.Equal(t, want, r.DisplayName)
		require.Len(t, r.Matches, 1)
		assert.Equal(t, therapist.ID, r.Matches[0].ID)
	}

	random := resp.Results[2]
	assert.Equal(t, matching.RandomModel, random.ModelName)
	assert.Nil(t, random.Matches[0].ConfidenceScore)
	assert.GreaterOrEqual(t, random.Matches[0].MatchScore, 1.0)
	assert.LessOrEqual(t, random.Matches[0].MatchScore, 100.0)

	for _, r := range resp.Results[:2] {
		m := r.Matches[0]
		require.NotNil(t, m.ConfidenceScore)
		assert.GreaterOrEqual(t, *m.ConfidenceScore, 75.0)
		assert.LessOrEqual(t, *m.ConfidenceScore, 95.0)
		assert.GreaterOrEqual(t, m.MatchScore, 80.0)
		assert.LessOrEqual(t, m.MatchScore, 95.0)
	}
}

func TestSubmit_NoTherapistsGivesEmptyMatches(t *testing.T) {
	_, repos := setup(t)
	svc := NewQuestionnaireService(repos, matching.NewDefaultService(testutil.Logger(t)), nil, testutil.Logger(t))

	sessionID, err := svc.Submit("a@b.com", map[string]interface{}{})
	require.NoError(t, err)

	resp, err := svc.GetResults(sessionID)
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	for _, r := range resp.Results {
		assert.NotNil(t, r.Matches)
		assert.Empty(t, r.Matches)
	}
}

type flakyMatcher struct {
	inner   MatchProvider
	failing string
}

func (f *flakyMatcher) GetMatches(therapists []models.Therapist, answers map[string]interface{}, modelName string) ([]models.TherapistMatch, float64, error) {
	if modelName == f.failing {
		return nil, 12.5, errors.New("model unavailable")
	}
	return f.inner.GetMatches(therapists, answers, modelName)
}

func TestSubmit_ModelFailureRecordsEmptyResult(t *testing.T) {
	db, repos := setup(t)
	testutil.SeedTherapist(t, db, "Ana", "ana@example.com")

	matcher := &flakyMatcher{inner: matching.NewDefaultService(testutil.Logger(t)), failing: "gemini-2.5-flash"}
	svc := NewQuestionnaireService(repos, matcher, nil, testutil.Logger(t))

	sessionID, err := svc.Submit("a@b.com", map[string]interface{}{"q1": "yes"})
	require.NoError(t, err)

	resp, err := svc.GetResults(sessionID)
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	failed := resp.Results[1]
	assert.Equal(t, "gemini-2.5-flash", failed.ModelName)
	assert.Empty(t, failed.Matches)
	assert.Equal(t, 0.0, failed.ProcessingTimeMs)
	assert.Len(t, resp.Results[0].Matches, 1)
	assert.Len(t, resp.Results[2].Matches, 1)
}

func TestSubmit_RequiresEmail(t *testing.T) {
	_, repos := setup(t)
	svc := NewQuestionnaireService(repos, matching.NewDefaultService(testutil.Logger(t)), nil, testutil.Logger(t))

	_, err := svc.Submit("  ", map[string]interface{}{})
	requireCode(t, err, ErrorInvalid)
}

func TestGetResults_NotFound(t *testing.T) {
	_, repos := setup(t)
	svc := NewQuestionnaireService(repos, matching.NewDefaultService(testutil.Logger(t)), nil, testutil.Logger(t))

	_, err := svc.GetResults("missing")
	requireCode(t, err, ErrorNotFound)

	// a session without results is still not found
	session := &models.ComparisonSession{Email: "a@b.com", QuestionnaireAnswers: map[string]interface{}{}}
	require.NoError(t, repos.Comparison.Create(session))
	_, err = svc.GetResults(session.ID)
	requireCode(t, err, ErrorNotFound)
	assert.Equal(t, "No results found for this session", err.Error())
}

func TestSelectTherapist(t *testing.T) {
	_, repos := setup(t)
	svc := NewQuestionnaireService(repos, matching.NewDefaultService(testutil.Logger(t)), nil, testutil.Logger(t))

	sessionID, err := svc.Submit("a@b.com", map[string]interface{}{})
	require.NoError(t, err)

	feedback := "Selected from Model B"
	require.NoError(t, svc.SelectTherapist(models.UserSelectionRequest{
		SessionID:           sessionID,
		SelectedTherapistID: "not-in-any-result",
		Feedback:            &feedback,
	}))
	require.NoError(t, svc.SelectTherapist(models.UserSelectionRequest{
		SessionID:           sessionID,
		SelectedTherapistID: "t2",
	}))

	selections, err := repos.UserSelection.GetBySession(sessionID)
	require.NoError(t, err)
	require.Len(t, selections, 2)
	picked := map[string]string{}
	for _, s := range selections {
		picked[s.SelectedTherapistID] = s.SelectedModel
	}
	assert.Equal(t, "Model B", picked["not-in-any-result"])
	assert.Equal(t, "unknown", picked["t2"])

	err = svc.SelectTherapist(selectionFor("missing"))
	requireCode(t, err, ErrorNotFound)
}

func selectionFor(sessionID string) models.UserSelectionRequest {
	return models.UserSelectionRequest{SessionID: sessionID, SelectedTherapistID: "t1"}
}

func TestSelectedModelFromFeedback(t *testing.T) {
	assert.Equal(t, "unknown", SelectedModelFromFeedback(""))
	assert.Equal(t, "unknown", SelectedModelFromFeedback("great match"))
	assert.Equal(t, "Model A", SelectedModelFromFeedback("Selected from Model A"))
	assert.Equal(t, "Selected from", SelectedModelFromFeedback("Selected from"))
	assert.Equal(t, "liked it, Model B", SelectedModelFromFeedback("liked it, Selected from Model B"))
}

func registration(email string) models.TherapistRegistrationRequest {
	return models.TherapistRegistrationRequest{
		Name:                  "Ana",
		Email:                 email,
		Specialties:           []string{"Ansiedad"},
		TherapeuticApproaches: []string{"Humanista"},
		SessionPrice:          600,
		Country:               "México",
		City:                  "Guadalajara",
		Remote:                true,
		Bio:                   "Psicoterapeuta",
		YearsExperience:       5,
		Languages:             []string{"Español"},
		TherapeuticStyle:      []string{"Cálido"},
		AgeGroups:             []string{"Adultos"},
		CommitmentLevel:       models.CommitmentLevels[1],
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	_, repos := setup(t)
	svc := NewTherapistService(repos, testutil.Logger(t))

	id, err := svc.Register(registration("ana@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	other := registration("ana@example.com")
	other.Name = "Someone Else"
	other.SessionPrice = 1
	other.City = "Monterrey"
	_, err = svc.Register(other)
	requireCode(t, err, ErrorConflict)
	assert.Equal(t, "Email already registered", err.Error())

	tooMany := registration("ana@example.com")
	tooMany.TherapeuticStyle = []string{"a", "b", "c"}
	_, err = svc.Register(tooMany)
	requireCode(t, err, ErrorConflict)

	badLevel := registration("ana@example.com")
	badLevel.CommitmentLevel = "whenever"
	badLevel.SessionPrice = -5
	_, err = svc.Register(badLevel)
	requireCode(t, err, ErrorConflict)
}

func TestRegister_Validation(t *testing.T) {
	_, repos := setup(t)
	svc := NewTherapistService(repos, testutil.Logger(t))

	tooMany := registration("a@example.com")
	tooMany.TherapeuticStyle = []string{"a", "b", "c"}
	_, err := svc.Register(tooMany)
	requireCode(t, err, ErrorInvalid)

	badLevel := registration("b@example.com")
	badLevel.CommitmentLevel = "whenever"
	_, err = svc.Register(badLevel)
	requireCode(t, err, ErrorInvalid)
}

func TestTherapistListAndDelete(t *testing.T) {
	_, repos := setup(t)
	svc := NewTherapistService(repos, testutil.Logger(t))

	id, err := svc.Register(registration("ana@example.com"))
	require.NoError(t, err)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.True(t, all[0].IsActive)

	require.NoError(t, svc.Delete(id))
	requireCode(t, svc.Delete(id), ErrorNotFound)
}

func TestAdminListSessions(t *testing.T) {
	_, repos := setup(t)
	questionnaire := NewQuestionnaireService(repos, matching.NewDefaultService(testutil.Logger(t)), nil, testutil.Logger(t))
	admin := NewAdminService(repos, testutil.Logger(t))

	sessionID, err := questionnaire.Submit("a@b.com", map[string]interface{}{"q1": "yes"})
	require.NoError(t, err)
	require.NoError(t, questionnaire.SelectTherapist(selectionFor(sessionID)))

	sessions, err := admin.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "a@b.com", sessions[0].Email)
	assert.EqualValues(t, 3, sessions[0].ModelResultsCount)
	assert.EqualValues(t, 1, sessions[0].UserSelectionsCount)
	assert.Equal(t, "yes", sessions[0].QuestionnaireAnswers["q1"])
}
