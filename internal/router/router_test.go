package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/handler"
	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
	"github.com/noah-isme/learnhub-api/internal/seed"
	"github.com/noah-isme/learnhub-api/internal/service"
	"github.com/noah-isme/learnhub-api/pkg/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *service.MetricsService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := service.NewMetricsService()
	store := repository.NewRecordStore(repository.NewMemoryBackend(), nil, nil, metrics)
	_, err := store.Seed(context.Background(), seed.Defaults())
	require.NoError(t, err)

	cache := service.NewCacheService(nil, metrics, time.Minute, nil, false)
	auth := service.NewAuthService(store, nil, nil, service.AuthConfig{AccessTokenSecret: "test-secret", Issuer: "test"})
	courses := service.NewCourseService(store, cache, nil, nil, service.CourseServiceConfig{})
	enrollments := service.NewEnrollmentService(store, cache, metrics, nil)
	dashboards := service.NewDashboardService(store, nil)

	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1"}
	r := New(Options{Config: cfg, Tokens: auth, Observer: metrics}, Handlers{
		Auth:       handler.NewAuthHandler(auth),
		Courses:    handler.NewCourseHandler(courses),
		Enrollment: handler.NewEnrollmentHandler(enrollments),
		Dashboard:  handler.NewDashboardHandler(dashboards),
		Metrics: handler.NewMetricsHandler(metrics, func(ctx context.Context) error {
			_, err := store.Courses(ctx)
			return err
		}),
	})
	return r, metrics
}

func do(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
	return env
}

func login(t *testing.T, r http.Handler, email string, role models.UserRole) string {
	t.Helper()
	rec := do(r, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Email: email, Role: role})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session models.Session
	decode(t, rec, &session)
	require.NotEmpty(t, session.AccessToken)
	return session.AccessToken
}

func TestRouterHealthAndPublicCatalog(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready", "", nil).Code)

	rec := do(r, http.MethodGet, "/api/v1/courses?q=PYTHON", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var courses []models.Course
	decode(t, rec, &courses)
	require.Len(t, courses, 1)
	assert.Equal(t, "Python Data Science Masterclass", courses[0].Title)

	rec = do(r, http.MethodGet, "/api/v1/courses/popular?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &courses)
	assert.Len(t, courses, 2)

	rec = do(r, http.MethodGet, "/api/v1/courses/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterEnrollmentFlow(t *testing.T) {
	r, metrics := newTestRouter(t)
	token := login(t, r, "student@learnhub.dev", models.RoleStudent)

	rec := do(r, http.MethodPost, "/api/v1/courses/2/enroll", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var enrollment models.Enrollment
	decode(t, rec, &enrollment)
	assert.Equal(t, "2", enrollment.CourseID)
	assert.Equal(t, 0, enrollment.Progress)

	rec = do(r, http.MethodPost, "/api/v1/courses/2/enroll", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(r, http.MethodPost, "/api/v1/enrollments/"+enrollment.ID+"/videos/4/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &enrollment)
	assert.Equal(t, 50, enrollment.Progress)

	rec = do(r, http.MethodPost, "/api/v1/enrollments/"+enrollment.ID+"/videos/4/complete", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &enrollment)
	assert.Equal(t, 50, enrollment.Progress)
	assert.Equal(t, []string{"4"}, enrollment.CompletedVideos)

	rec = do(r, http.MethodGet, "/api/v1/courses/2", "", nil)
	var course models.Course
	decode(t, rec, &course)
	assert.Equal(t, 2157, course.StudentsCount)

	assert.Equal(t, uint64(1), metrics.Snapshot().Enrollments)
}

func TestRouterRoleGuards(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/dashboard/student", "", nil).Code)

	student := login(t, r, "student@learnhub.dev", models.RoleStudent)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/dashboard/student", student, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/dashboard/trainer", student, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/v1/courses/1", student, nil).Code)

	trainer := login(t, r, "michael.chen@learnhub.dev", models.RoleTrainer)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodPost, "/api/v1/courses/1/enroll", trainer, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/v1/courses/1", trainer, nil).Code)
}

func TestRouterTrainerReport(t *testing.T) {
	r, _ := newTestRouter(t)
	trainer := login(t, r, "sarah.johnson@learnhub.dev", models.RoleTrainer)

	rec := do(r, http.MethodGet, "/api/v1/reports/trainer?format=csv", trainer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Complete React Development Bootcamp")

	rec = do(r, http.MethodGet, "/api/v1/reports/trainer?format=xlsx", trainer, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouterSessionLifecycle(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/auth/session", "", nil).Code)

	token := login(t, r, "student@learnhub.dev", models.RoleStudent)
	rec := do(r, http.MethodGet, "/api/v1/auth/session", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	decode(t, rec, &user)
	assert.Equal(t, "student1", user.ID)

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/api/v1/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/auth/session", "", nil).Code)
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "/api/v1", normalizePrefix("api/v1/"))
	assert.Equal(t, "/", normalizePrefix(""))
}
