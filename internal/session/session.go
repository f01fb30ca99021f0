// Package session carries the authenticated user of one request. Handlers
// receive it from the auth middleware and pass it down to services
// explicitly; there is no process-wide current user.
package session

import (
	"time"

	"anoa.com/academicrecords/internal/entity"
)

type Session struct {
	User      entity.User
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RevokedKey is the redis key marking a token id as logged out.
func RevokedKey(tokenID string) string {
	return "revoked_token:" + tokenID
}

func New(user entity.User, issuedAt, expiresAt time.Time) *Session {
	user.PasswordHash = ""
	return &Session{User: user, IssuedAt: issuedAt, ExpiresAt: expiresAt}
}

func (s *Session) UserID() string {
	return s.User.ID
}

// HasRole reports whether the session user holds any of roles.
func (s *Session) HasRole(roles ...entity.Role) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}
