package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type fakeAuthSrv struct {
	session    *models.Session
	err        error
	current    *models.User
	profile    *models.User
	lastLogin  models.LoginRequest
	lastReg    models.RegisterRequest
	profileFor string
	loggedOut  bool
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.Session, error) {
	f.lastLogin = req
	return f.session, f.err
}

func (f *fakeAuthSrv) Register(_ context.Context, req models.RegisterRequest) (*models.Session, error) {
	f.lastReg = req
	return f.session, f.err
}

func (f *fakeAuthSrv) Logout(context.Context) error {
	f.loggedOut = true
	return f.err
}

func (f *fakeAuthSrv) CurrentUser(context.Context) (*models.User, error) {
	if f.current == nil {
		return nil, appErrors.ErrNoSession
	}
	return f.current, nil
}

func (f *fakeAuthSrv) Profile(_ context.Context, userID string) (*models.User, error) {
	f.profileFor = userID
	return f.profile, f.err
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	svc := &fakeAuthSrv{session: &models.Session{AccessToken: "token", User: models.User{ID: "1", Email: "student1@example.com"}}}
	handler := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/auth/login", models.LoginRequest{Email: "student1@example.com", Role: models.RoleStudent})
	handler.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var session models.Session
	decodeData(t, rec, &session)
	assert.Equal(t, "token", session.AccessToken)
	assert.Equal(t, models.RoleStudent, svc.lastLogin.Role)
}

func TestAuthHandlerLoginRejectsMalformedBody(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})

	c, rec := newTestContext(http.MethodPost, "/auth/login", "{not json")
	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{err: appErrors.ErrInvalidCredentials})

	c, rec := newTestContext(http.MethodPost, "/auth/login", models.LoginRequest{Email: "x@example.com", Role: models.RoleTrainer})
	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandlerRegisterCreated(t *testing.T) {
	svc := &fakeAuthSrv{session: &models.Session{AccessToken: "token"}}
	handler := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/auth/register", models.RegisterRequest{Name: "New", Email: "new@example.com", Role: models.RoleTrainer})
	handler.Register(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "new@example.com", svc.lastReg.Email)
}

func TestAuthHandlerRegisterConflict(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{err: appErrors.ErrEmailTaken})

	c, rec := newTestContext(http.MethodPost, "/auth/register", models.RegisterRequest{Name: "New", Email: "new@example.com", Role: models.RoleTrainer})
	handler.Register(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthHandlerMeUsesClaims(t *testing.T) {
	svc := &fakeAuthSrv{profile: &models.User{ID: "42", Name: "Jane"}}
	handler := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/auth/me", nil)
	withClaims(c, "42", models.RoleStudent)
	handler.Me(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", svc.profileFor)
}

func TestAuthHandlerMeWithoutClaims(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})

	c, rec := newTestContext(http.MethodGet, "/auth/me", nil)
	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerSessionAndLogout(t *testing.T) {
	svc := &fakeAuthSrv{}
	handler := NewAuthHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/auth/session", nil)
	handler.Session(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	svc.current = &models.User{ID: "1"}
	c, rec = newTestContext(http.MethodGet, "/auth/session", nil)
	handler.Session(c)
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newTestContext(http.MethodPost, "/auth/logout", nil)
	handler.Logout(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.True(t, svc.loggedOut)
}
