package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/learnhub-api/internal/models"
	"github.com/noah-isme/learnhub-api/internal/repository"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

func newAuthService(t *testing.T) (*AuthService, *repository.RecordStore) {
	t.Helper()
	store := newTestStore(t, nil, nil)
	require.NoError(t, store.SaveUsers(context.Background(), []models.User{
		{ID: "student1", Name: "Sam Student", Email: "sam@example.com", Role: models.RoleStudent},
		{ID: "trainer1", Name: "Tia Trainer", Email: "tia@example.com", Role: models.RoleTrainer},
	}))
	svc := NewAuthService(store, nil, nil, AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "learnhub-test"})
	return svc, store
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, models.LoginRequest{Email: "sam@example.com", Password: "anything", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "student1", session.User.ID)
	assert.Equal(t, int64(3600), session.ExpiresIn)
	assert.NotEmpty(t, session.AccessToken)

	current, err := store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "student1", current.ID)

	claims, err := svc.ValidateToken(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "student1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "learnhub-test", claims.Issuer)
}

func TestAuthServiceLoginWrongRole(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Email: "sam@example.com", Role: models.RoleTrainer})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	_, err = store.CurrentUser(ctx)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoSession))
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Role: models.RoleStudent})
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "not-an-email", Role: models.RoleStudent})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestAuthServiceRegister(t *testing.T) {
	svc, store := newAuthService(t)
	svc.now = fixedClock
	ctx := context.Background()

	session, err := svc.Register(ctx, models.RegisterRequest{Name: "New Person", Email: "new@example.com", Role: models.RoleTrainer})
	require.NoError(t, err)
	assert.Equal(t, "1706781600000", session.User.ID)
	assert.Equal(t, fixedNow, session.User.JoinedDate)

	users, err := store.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	current, err := store.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", current.Email)
}

func TestAuthServiceRegisterSameMillisecondGetsDistinctIDs(t *testing.T) {
	svc, _ := newAuthService(t)
	svc.now = fixedClock
	ctx := context.Background()

	first, err := svc.Register(ctx, models.RegisterRequest{Name: "One", Email: "one@example.com", Role: models.RoleStudent})
	require.NoError(t, err)
	second, err := svc.Register(ctx, models.RegisterRequest{Name: "Two", Email: "two@example.com", Role: models.RoleStudent})
	require.NoError(t, err)

	assert.Equal(t, "1706781600000", first.User.ID)
	assert.Equal(t, "1706781600001", second.User.ID)
}

func TestAuthServiceRegisterDuplicateEmail(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, models.RegisterRequest{Name: "Copy", Email: "sam@example.com", Role: models.RoleTrainer})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrEmailTaken))

	users, err := store.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestAuthServiceLogoutClearsSession(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, models.LoginRequest{Email: "tia@example.com", Role: models.RoleTrainer})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx))

	_, err = svc.CurrentUser(ctx)
	assert.True(t, appErrors.Is(err, appErrors.ErrNoSession))
}

func TestAuthServiceProfile(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Profile(context.Background(), "trainer1")
	require.NoError(t, err)
	assert.Equal(t, "Tia Trainer", user.Name)

	_, err = svc.Profile(context.Background(), "ghost")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestAuthServiceValidateTokenRejectsForeignSignature(t *testing.T) {
	svc, _ := newAuthService(t)
	other := NewAuthService(newTestStore(t, nil, nil), nil, nil, AuthConfig{AccessTokenSecret: "other"})
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{UserID: "x"}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = other.ValidateToken(token)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestAuthServiceValidateTokenRejectsExpired(t *testing.T) {
	svc, _ := newAuthService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	session, err := svc.Login(context.Background(), models.LoginRequest{Email: "sam@example.com", Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(session.AccessToken)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
