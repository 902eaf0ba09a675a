package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Ayash-Bera/kuna/backend/internal/auth"
	"github.com/Ayash-Bera/kuna/backend/internal/database"
	"github.com/Ayash-Bera/kuna/backend/internal/health"
	"github.com/Ayash-Bera/kuna/backend/internal/matching"
	"github.com/Ayash-Bera/kuna/backend/internal/middleware"
	"github.com/Ayash-Bera/kuna/backend/internal/models"
	"github.com/Ayash-Bera/kuna/backend/internal/repository"
	"github.com/Ayash-Bera/kuna/backend/internal/services"
	"github.com/Ayash-Bera/kuna/backend/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@kuna.com"
	adminPassword = "secret123"
)

type testServer struct {
	router http.Handler
	db     *gorm.DB
}

func newTestServer(t *testing.T, loginPerMinute int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := testutil.Logger(t)
	db := testutil.DB(t)
	repos := repository.NewRepositoryManager(db)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	provider := auth.NewStaticProvider(adminEmail, "Admin User", string(hash))
	authService := auth.NewService(provider, auth.NewTokenManager("test-secret", time.Hour), log)

	counter := middleware.NewMemoryCounter()
	t.Cleanup(counter.Close)

	router := NewRouter(Dependencies{
		Questionnaire:  services.NewQuestionnaireService(repos, matching.NewDefaultService(log), nil, log),
		Therapists:     services.NewTherapistService(repos, log),
		Admin:          services.NewAdminService(repos, log),
		Auth:           authService,
		Health:         health.NewHealthChecker(&database.Manager{DB: db}, log),
		LoginLimiter:   middleware.NewRateLimiter(counter, loginPerMinute, log),
		AllowedOrigins: []string{"http://localhost:3000"},
		Logger:         log,
	})

	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) loginForm(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	rec := s.loginForm(t, adminEmail, adminPassword)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestSubmitAndFetchResults(t *testing.T) {
	s := newTestServer(t, 10)
	therapist := testutil.SeedTherapist(t, s.db, "Ana", "ana@example.com")

	rec := s.do(t, http.MethodPost, "/api/submit-questionnaire", map[string]interface{}{
		"email":   "a@b.com",
		"answers": map[string]interface{}{"q1": "yes"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var submitted models.SubmitQuestionnaireResponse
	decode(t, rec, &submitted)
	require.NotEmpty(t, submitted.SessionID)

	rec = s.do(t, http.MethodGet, "/api/results/"+submitted.SessionID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var results models.ComparisonResponse
	decode(t, rec, &results)
	assert.Equal(t, submitted.SessionID, results.ComparisonID)
	require.Len(t, results.Results, 3)

	labels := make([]string, 0, 3)
	for _, r := range results.Results {
		labels = append(labels, r.DisplayName)
		require.Len(t, r.Matches, 1)
		assert.Equal(t, therapist.ID, r.Matches[0].ID)
	}
	assert.Equal(t, []string{"Model A", "Model B", "Model C"}, labels)
	assert.Nil(t, results.Results[2].Matches[0].ConfidenceScore)
}

func TestResults_UnknownSession(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(t, http.MethodGet, "/api/results/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Session not found")
}

func TestSubmit_ValidationError(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(t, http.MethodPost, "/api/submit-questionnaire", map[string]interface{}{
		"email": "not-an-email",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Success bool              `json:"success"`
		Errors  map[string]string `json:"errors"`
	}
	decode(t, rec, &body)
	assert.False(t, body.Success)
	assert.Equal(t, "email", body.Errors["email"])
	assert.Equal(t, "required", body.Errors["answers"])
}

func TestSelectTherapist(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(t, http.MethodPost, "/api/submit-questionnaire", map[string]interface{}{
		"email": "a@b.com", "answers": map[string]interface{}{},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var submitted models.SubmitQuestionnaireResponse
	decode(t, rec, &submitted)

	rec = s.do(t, http.MethodPost, "/api/select-therapist", map[string]interface{}{
		"session_id":            submitted.SessionID,
		"selected_therapist_id": "t1",
		"feedback":              "Selected from Model A",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Selection recorded successfully"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/select-therapist", map[string]interface{}{
		"session_id": "missing", "selected_therapist_id": "t1",
	}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func registrationBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"name":                   "Ana",
		"email":                  email,
		"specialties":            []string{"Ansiedad"},
		"therapeutic_approaches": []string{"Humanista"},
		"session_price":          600,
		"country":                "México",
		"city":                   "CDMX",
		"remote":                 true,
		"bio":                    "Psicoterapeuta",
		"years_experience":       4,
		"languages":              []string{"Español"},
		"therapeutic_style":      []string{"Cálido"},
		"age_groups":             []string{"Adultos"},
	}
}

func TestRegisterTherapist(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(t, http.MethodPost, "/api/register-therapist", registrationBody("ana@example.com"), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var created struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	decode(t, rec, &created)
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Therapist registered successfully", created.Message)

	dup := registrationBody("ana@example.com")
	dup["name"] = "Another Name"
	rec = s.do(t, http.MethodPost, "/api/register-therapist", dup, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")

	tooMany := registrationBody("luis@example.com")
	tooMany["therapeutic_style"] = []string{"a", "b", "c"}
	rec = s.do(t, http.MethodPost, "/api/register-therapist", tooMany, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "therapeutic styles")

	missing := registrationBody("luis@example.com")
	delete(missing, "languages")
	rec = s.do(t, http.MethodPost, "/api/register-therapist", missing, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "languages")
}

func TestRegisterTherapist_DuplicateWinsOverInvalidFields(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(t, http.MethodPost, "/api/register-therapist", registrationBody("dup@example.com"), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tooMany := registrationBody("dup@example.com")
	tooMany["therapeutic_style"] = []string{"a", "b", "c"}
	badLevel := registrationBody("dup@example.com")
	badLevel["commitment_level"] = "whenever"
	negative := registrationBody("dup@example.com")
	negative["session_price"] = -100

	for _, body := range []map[string]interface{}{tooMany, badLevel, negative} {
		rec = s.do(t, http.MethodPost, "/api/register-therapist", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"success":false,"detail":"Email already registered"}`, rec.Body.String())
	}
}

func TestLoginThenMe(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.loginForm(t, adminEmail, adminPassword)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login models.LoginResponse
	decode(t, rec, &login)
	assert.Equal(t, "bearer", login.TokenType)
	assert.Equal(t, models.AdminUserResponse{Email: adminEmail, Name: "Admin User", Role: "admin"}, login.User)

	rec = s.do(t, http.MethodGet, "/api/admin/me", nil, login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var me models.AdminUserResponse
	decode(t, rec, &me)
	assert.Equal(t, adminEmail, me.Email)

	rec = s.do(t, http.MethodPost, "/api/admin/login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_Rejected(t *testing.T) {
	s := newTestServer(t, 10)

	for _, email := range []string{adminEmail, "nobody@kuna.com"} {
		rec := s.loginForm(t, email, "wrong-password")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Contains(t, rec.Body.String(), "Incorrect email or password")
	}

	rec := s.loginForm(t, strings.ToUpper(adminEmail), adminPassword)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect email or password")

	rec = s.do(t, http.MethodGet, "/api/admin/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_Throttled(t *testing.T) {
	s := newTestServer(t, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, s.loginForm(t, adminEmail, "wrong-password").Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, 10)
	therapist := testutil.SeedTherapist(t, s.db, "Ana", "ana@example.com")

	for _, path := range []string{"/api/admin/therapists", "/api/admin/sessions"} {
		rec := s.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	token := s.adminToken(t)

	rec := s.do(t, http.MethodGet, "/api/admin/therapists", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var therapists []models.TherapistAdminView
	decode(t, rec, &therapists)
	require.Len(t, therapists, 1)
	assert.Equal(t, therapist.ID, therapists[0].ID)

	rec = s.do(t, http.MethodPost, "/api/submit-questionnaire", map[string]interface{}{
		"email": "a@b.com", "answers": map[string]interface{}{"q1": "yes"},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/admin/sessions", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	var sessions []models.SessionSummary
	decode(t, rec, &sessions)
	require.Len(t, sessions, 1)
	assert.EqualValues(t, 3, sessions[0].ModelResultsCount)
	assert.EqualValues(t, 0, sessions[0].UserSelectionsCount)

	rec = s.do(t, http.MethodDelete, "/api/admin/therapists/"+therapist.ID, nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Therapist deleted successfully"}`, rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/admin/therapists/"+therapist.ID, nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndRoot(t *testing.T) {
	s := newTestServer(t, 10)

	rec := s.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report models.HealthResponse
	decode(t, rec, &report)
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "kuna-backend", report.Service)
	assert.Equal(t, "disabled", report.Services["redis"])

	rec = s.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Kuna Therapist Matching API","version":"1.0.0"}`, rec.Body.String())
}
