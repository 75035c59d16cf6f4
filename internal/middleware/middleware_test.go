package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
	err    error
	seen   string
}

func (s *stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	s.seen = token
	return s.claims, s.err
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		if claims := Claims(c); claims != nil {
			c.String(http.StatusOK, claims.UserID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/protected", handlers...)
	return r
}

func perform(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRequiresBearerToken(t *testing.T) {
	validator := &stubValidator{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}}
	r := newRouter(JWT(validator))

	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "Bearer ").Code)

	rec := perform(r, "Bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
	assert.Equal(t, "good-token", validator.seen)
}

func TestJWTPropagatesValidationError(t *testing.T) {
	validator := &stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")}
	rec := perform(newRouter(JWT(validator)), "Bearer bad")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestRequireRoles(t *testing.T) {
	student := &stubValidator{claims: &models.JWTClaims{UserID: "s1", Role: models.RoleStudent}}
	trainer := &stubValidator{claims: &models.JWTClaims{UserID: "t1", Role: models.RoleTrainer}}

	assert.Equal(t, http.StatusForbidden, perform(newRouter(JWT(student), RequireRoles(models.RoleTrainer)), "Bearer x").Code)
	assert.Equal(t, http.StatusOK, perform(newRouter(JWT(trainer), RequireRoles(models.RoleTrainer)), "Bearer x").Code)
	assert.Equal(t, http.StatusOK, perform(newRouter(JWT(student), RequireRoles(models.RoleStudent, models.RoleTrainer)), "Bearer x").Code)
	assert.Equal(t, http.StatusUnauthorized, perform(newRouter(RequireRoles(models.RoleStudent)), "").Code)
}

type recordingObserver struct {
	path   string
	status int
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.path = path
	r.status = status
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/courses/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/42", nil))

	assert.Equal(t, "/courses/:id", observer.path)
	assert.Equal(t, http.StatusNoContent, observer.status)
}

type scriptedEvaler struct {
	replies []interface{}
	err     error
	keys    []string
}

func (s *scriptedEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	s.keys = append(s.keys, keys...)
	cmd := redis.NewCmd(ctx)
	if s.err != nil {
		cmd.SetErr(s.err)
		return cmd
	}
	cmd.SetVal(s.replies[0])
	s.replies = s.replies[1:]
	return cmd
}

func TestRateLimiterBlocksWhenWindowExhausted(t *testing.T) {
	evaler := &scriptedEvaler{replies: []interface{}{
		[]interface{}{int64(1), int64(0)},
		[]interface{}{int64(0), int64(0)},
	}}
	limiter := NewRateLimiter(evaler, 1, time.Minute, nil)
	r := newRouter(limiter.Limit("auth_login"))

	first := perform(r, "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := perform(r, "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	require.Len(t, evaler.keys, 2)
	assert.Contains(t, evaler.keys[0], "rate:fw:auth_login:ip:")
}

func TestRateLimiterFailsOpen(t *testing.T) {
	limiter := NewRateLimiter(&scriptedEvaler{err: errors.New("connection refused")}, 1, time.Minute, nil)
	assert.Equal(t, http.StatusOK, perform(newRouter(limiter.Limit("auth_login")), "").Code)

	disabled := NewRateLimiter(nil, 1, time.Minute, nil)
	assert.Equal(t, http.StatusOK, perform(newRouter(disabled.Limit("auth_login")), "").Code)
}

func TestResponseMetaCarriesCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	SetCacheHit(c, true)
	meta := ResponseMeta(c, time.Now())

	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
