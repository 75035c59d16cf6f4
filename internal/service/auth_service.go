package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
)

type authStore interface {
	Update(ctx context.Context, fn func(ctx context.Context) error) error
	Users(ctx context.Context) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
	CurrentUser(ctx context.Context) (*models.User, error)
	SetCurrentUser(ctx context.Context, user models.User) error
	ClearCurrentUser(ctx context.Context) error
}

// AuthConfig defines configuration for session tokens.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// AuthService provides login, registration and the persisted session singleton.
type AuthService struct {
	store     authStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(store authStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{store: store, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login looks the user up by email and role. The password is not checked.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	var found *models.User
	for i := range users {
		if users[i].Email == req.Email && users[i].Role == req.Role {
			found = &users[i]
			break
		}
	}
	if found == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or role")
	}

	if err := s.store.SetCurrentUser(ctx, *found); err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", zap.String("user_id", found.ID), zap.String("role", string(found.Role)))
	return s.issueSession(*found)
}

// Register creates an account with an epoch-millisecond id and signs the new user in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	var created models.User
	err := s.store.Update(ctx, func(ctx context.Context) error {
		users, err := s.store.Users(ctx)
		if err != nil {
			return err
		}
		ids := make(map[string]struct{}, len(users))
		for _, user := range users {
			if user.Email == req.Email {
				return appErrors.Clone(appErrors.ErrEmailTaken, "email is already registered")
			}
			ids[user.ID] = struct{}{}
		}

		now := s.now().UTC()
		created = models.User{
			ID: nextRecordID(now, func(id string) bool {
				_, ok := ids[id]
				return ok
			}),
			Name:       req.Name,
			Email:      req.Email,
			Role:       req.Role,
			JoinedDate: now,
		}
		if err := s.store.SaveUsers(ctx, append(users, created)); err != nil {
			return err
		}
		return s.store.SetCurrentUser(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", created.ID), zap.String("role", string(created.Role)))
	return s.issueSession(created)
}

// Logout clears the persisted session.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.ClearCurrentUser(ctx)
}

// CurrentUser returns the persisted session user.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.store.CurrentUser(ctx)
}

// Profile returns the stored account for userID.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == userID {
			return &users[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
}

// ValidateToken parses and validates a JWT access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) issueSession(user models.User) (*models.Session, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	return &models.Session{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
		User:        user,
	}, nil
}
