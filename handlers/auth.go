package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"legalintake-backend/repository"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyAuth returns a middleware that checks the X-API-Key header against
// the bcrypt hashes stored in the database. When no keys are provisioned
// the check is skipped, which keeps local development friction-free.
func APIKeyAuth(apiKeyRepo *repository.APIKeyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		hashes, err := apiKeyRepo.ListHashes(ctx)
		if err != nil {
			log.Printf("failed to load API keys: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTH_UNAVAILABLE",
					"message": "Authentication temporarily unavailable",
				},
			})
			return
		}

		if len(hashes) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_API_KEY",
					"message": "X-API-Key header is required",
				},
			})
			return
		}

		for _, hash := range hashes {
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_API_KEY",
				"message": "Invalid API key",
			},
		})
	}
}
