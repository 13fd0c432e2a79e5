package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studieplein/presentie-api/internal/middleware"
	"github.com/studieplein/presentie-api/internal/models"
)

// claimsFromContext extracts the authenticated user's claims set by the
// JWT middleware.
func claimsFromContext(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
