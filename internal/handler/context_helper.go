package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/learnhub-api/internal/middleware"
	"github.com/noah-isme/learnhub-api/internal/models"
	appErrors "github.com/noah-isme/learnhub-api/pkg/errors"
	"github.com/noah-isme/learnhub-api/pkg/response"
)

// requireClaims returns the caller's claims or writes a 401 and returns nil.
func requireClaims(c *gin.Context) *models.JWTClaims {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil
	}
	return claims
}
