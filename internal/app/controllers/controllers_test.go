package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/eduportal/internal/app/controllers"
	"github.com/yigit/eduportal/internal/app/models"
	"github.com/yigit/eduportal/internal/app/repositories"
	"github.com/yigit/eduportal/internal/app/routes"
	"github.com/yigit/eduportal/internal/app/services"
	"github.com/yigit/eduportal/internal/app/session"
	"github.com/yigit/eduportal/internal/middleware"
	"github.com/yigit/eduportal/internal/pkg/auth"
	"github.com/yigit/eduportal/internal/pkg/credentials"
	"github.com/yigit/eduportal/internal/pkg/docstore"
	"golang.org/x/crypto/bcrypt"
)

const adminEmail = "admin@gmail.com"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testPortal struct {
	t        *testing.T
	router   *gin.Engine
	repos    *repositories.Repositories
	provider *credentials.LocalProvider
}

func newTestPortal(t *testing.T) *testPortal {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth.BcryptCost = bcrypt.MinCost

	store := docstore.NewMemoryStore()
	lgr := zerolog.Nop()
	isAdmin := func(email string) bool { return email == adminEmail }

	provider := credentials.NewLocalProvider(store, time.Hour, lgr)
	tokens := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", Expiration: time.Hour, TokenIssuer: "eduportal"})
	sessions := session.NewManager(session.NewMemoryStore(time.Hour), tokens, provider, isAdmin, lgr)
	repos := repositories.NewRepositories(store, lgr)

	router := gin.New()
	routes.SetupRouter(router, routes.Controllers{
		Auth:      controllers.NewAuthController(services.NewAuthService(sessions, provider, repos, isAdmin, lgr), lgr),
		Admin:     controllers.NewAdminController(services.NewAdminService(repos, lgr)),
		Streams:   controllers.NewStreamController(services.NewStreamService(repos, lgr)),
		Blogs:     controllers.NewBlogController(services.NewBlogService(repos, lgr)),
		Student:   controllers.NewStudentController(services.NewStudentService(repos, lgr)),
		Teacher:   controllers.NewTeacherController(services.NewTeacherService(repos, lgr)),
		Developer: controllers.NewDeveloperController(services.NewDeveloperService(repos, lgr)),
		Industry:  controllers.NewIndustryController(services.NewIndustryService(repos, lgr)),
	}, middleware.NewAuthMiddleware(sessions))

	return &testPortal{t: t, router: router, repos: repos, provider: provider}
}

func (p *testPortal) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	p.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(p.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	p.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(p.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

// startSession opens a session and returns its token
func (p *testPortal) startSession() string {
	p.t.Helper()
	w, env := p.do(http.MethodPost, "/api/v1/session", "", nil)
	require.Equal(p.t, http.StatusCreated, w.Code)

	var data struct {
		Token struct {
			AccessToken string `json:"accessToken"`
		} `json:"token"`
	}
	require.NoError(p.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(p.t, data.Token.AccessToken)
	return data.Token.AccessToken
}

func (p *testPortal) selectRole(token, role string) {
	p.t.Helper()
	w, _ := p.do(http.MethodPost, "/api/v1/session/role", token, map[string]string{"role": role})
	require.Equal(p.t, http.StatusOK, w.Code)
}

func (p *testPortal) adminToken() string {
	p.t.Helper()
	_, err := p.provider.EnsureAccount(context.Background(), adminEmail, "admin123")
	require.NoError(p.t, err)

	token := p.startSession()
	p.selectRole(token, "admin")
	w, env := p.do(http.MethodPost, "/api/v1/session/admin", token, map[string]string{"email": adminEmail, "password": "admin123"})
	require.Equal(p.t, http.StatusOK, w.Code, env.Message)
	return token
}

func (p *testPortal) studentToken() string {
	p.t.Helper()
	token := p.startSession()
	p.selectRole(token, "student")
	w, env := p.do(http.MethodPost, "/api/v1/session/register", token, map[string]string{
		"email":           "student@uni.edu",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"fullName":        "Asha Rao",
		"institution":     "IITB",
		"studentId":       "S-100",
	})
	require.Equal(p.t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(p.t, services.MsgRegistrationSuccess, env.Message)
	return token
}

func sessionState(t *testing.T, env envelope) string {
	t.Helper()
	var data struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.State
}

func TestSessionFlow(t *testing.T) {
	p := newTestPortal(t)
	token := p.startSession()

	w, env := p.do(http.MethodGet, "/api/v1/session", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "landing", sessionState(t, env))

	_, env = p.do(http.MethodPost, "/api/v1/session/role", token, map[string]string{"role": "teacher"})
	assert.Equal(t, "authenticating", sessionState(t, env))

	w, env = p.do(http.MethodPost, "/api/v1/session/login", token, map[string]string{"email": "", "password": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", env.Error.Message)

	_, env = p.do(http.MethodPost, "/api/v1/session/roles", token, nil)
	assert.Equal(t, "role_selected", sessionState(t, env))

	_, env = p.do(http.MethodPost, "/api/v1/session/back", token, nil)
	assert.Equal(t, "landing", sessionState(t, env))

	w, _ = p.do(http.MethodPost, "/api/v1/session/login", token, map[string]string{"email": "a@b.c", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = p.do(http.MethodDelete, "/api/v1/session", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = p.do(http.MethodGet, "/api/v1/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionRequiresToken(t *testing.T) {
	p := newTestPortal(t)

	w, env := p.do(http.MethodGet, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = p.do(http.MethodGet, "/api/v1/session", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestIndustryLifecycle(t *testing.T) {
	p := newTestPortal(t)
	admin := p.adminToken()

	w, env := p.do(http.MethodPost, "/api/v1/admin/industries", admin, map[string]string{
		"companyName":  "Acme",
		"email":        "hr@acme.io",
		"industryType": "Software",
		"companyId":    "ACME1",
		"password":     "industry123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Industry added successfully!", env.Message)

	var created models.Industry
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Empty(t, created.Password)
	assert.Equal(t, models.StatusActive, created.Status)

	// Duplicate company id
	w, _ = p.do(http.MethodPost, "/api/v1/admin/industries", admin, map[string]string{
		"companyName":  "Acme Two",
		"email":        "jobs@acme.io",
		"industryType": "Software",
		"companyId":    "ACME1",
		"password":     "industry123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Industry partner signs in with the provisioned credentials
	token := p.startSession()
	p.selectRole(token, "industry")
	w, env = p.do(http.MethodPost, "/api/v1/session/login", token, map[string]string{"companyId": "ACME1", "password": "industry123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, services.MsgLoginSuccess, env.Message)

	w, _ = p.do(http.MethodGet, "/api/v1/industry/internships", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = p.do(http.MethodGet, "/api/v1/admin/industries", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Stored hashes never reach the admin
	w, _ = p.do(http.MethodGet, "/api/v1/admin/industries/"+created.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	w, env = p.do(http.MethodPut, "/api/v1/admin/industries/"+created.ID, admin, map[string]string{"companyName": "Acme Corp"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")
	var updated models.Industry
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Acme Corp", updated.CompanyName)

	w, _ = p.do(http.MethodGet, "/api/v1/admin/industries", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Acme Corp")
	assert.NotContains(t, w.Body.String(), "password")

	// Deletion needs confirmation
	w, env = p.do(http.MethodDelete, "/api/v1/admin/industries/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, controllers.MsgDeletionNotConfirmed, env.Error.Message)

	w, env = p.do(http.MethodDelete, "/api/v1/admin/industries/"+created.ID+"?confirm=true", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Industry deleted successfully!", env.Message)

	w, _ = p.do(http.MethodGet, "/api/v1/admin/industries/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeminarRegistration(t *testing.T) {
	p := newTestPortal(t)
	student := p.studentToken()

	seminar, err := p.repos.Seminars.Create(context.Background(), &models.Seminar{
		Title:           "Intro to Go",
		Date:            time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		MaxParticipants: 1,
		Status:          models.StatusScheduled,
	})
	require.NoError(t, err)

	w, env := p.do(http.MethodPost, "/api/v1/student/seminars/"+seminar.ID+"/register", student, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, services.MsgSeminarRegistered, env.Message)

	var reg struct {
		Registrations int `json:"registrations"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, 1, reg.Registrations)

	w, env = p.do(http.MethodPost, "/api/v1/student/seminars/"+seminar.ID+"/register", student, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "RES_005", env.Error.Code)

	w, _ = p.do(http.MethodPost, "/api/v1/student/seminars/missing/register", student, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Students cannot open another role's views
	w, _ = p.do(http.MethodGet, "/api/v1/teacher/profile", student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStreamEditor(t *testing.T) {
	p := newTestPortal(t)
	admin := p.adminToken()

	w, env := p.do(http.MethodPost, "/api/v1/admin/streams", admin, map[string]any{
		"name":           "Bachelor of Science",
		"code":           "BSC",
		"category":       "Science",
		"duration":       "3 years",
		"totalSemesters": 6,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var stream models.Stream
	require.NoError(t, json.Unmarshal(env.Data, &stream))
	assert.Equal(t, models.FlexString("6"), stream.TotalSemesters)

	w, env = p.do(http.MethodPut, "/api/v1/admin/streams/"+stream.ID, admin, map[string]string{"description": "Core sciences"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Stream
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Core sciences", updated.Description)
	assert.Equal(t, "BSC", updated.Code)

	w, env = p.do(http.MethodGet, "/api/v1/admin/streams?search=science", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []models.Stream `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Items, 1)
}
