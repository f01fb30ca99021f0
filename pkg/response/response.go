package response

import (
	"log"
	"net/http"

	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key the auth middleware stores the session under.
const SessionKey = "session"

// GetSession retrieves the authenticated session from the context
func GetSession(c *gin.Context) (*session.Session, error) {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	sess, ok := v.(*session.Session)
	if !ok || sess == nil {
		return nil, apperror.ErrUnauthorized
	}

	return sess, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
