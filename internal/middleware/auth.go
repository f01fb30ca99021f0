package middleware

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/academicrecords/internal/entity"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

type AuthMiddleware struct {
	userRepo    userRepo.UserRepository
	redisClient *redis.Client
	secret      string
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, redisClient *redis.Client, secret string) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo:    userRepo,
		redisClient: redisClient,
		secret:      secret,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}
		token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(m.secret), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token claims"})
			c.Abort()
			return
		}

		if m.redisClient != nil && claims.ID != "" {
			revoked, err := m.redisClient.Exists(c.Request.Context(), session.RevokedKey(claims.ID)).Result()
			if err != nil {
				log.Printf("[auth] revocation check failed: %v", err)
			} else if revoked > 0 {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "token has been revoked"})
				c.Abort()
				return
			}
		}

		// The user is reloaded so role changes and deletions apply immediately.
		user, err := m.userRepo.FindByID(c.Request.Context(), claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		var issuedAt, expiresAt time.Time
		if claims.IssuedAt != nil {
			issuedAt = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		sess := session.New(*user, issuedAt, expiresAt)
		sess.TokenID = claims.ID
		c.Set(response.SessionKey, sess)
		c.Set("user_id", user.ID)
		c.Next()
	}
}

// RequireRole admits sessions holding any of roles.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := response.GetSession(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if !sess.HasRole(roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return m.RequireRole(entity.RoleAdmin)
}
