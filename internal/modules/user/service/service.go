package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	"anoa.com/academicrecords/internal/modules/user/dto"
	"anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var errInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid user id or password", apperror.ErrUnauthorized)

type AuthService interface {
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Logout(ctx context.Context, sess *session.Session) error
}

type authService struct {
	repo        repository.UserRepository
	activity    activity.ActivityService
	limiter     *LoginLimiter
	redisClient *redis.Client
	secret      string
	tokenTTL    time.Duration
	now         func() time.Time
}

func NewAuthService(
	repo repository.UserRepository,
	activity activity.ActivityService,
	limiter *LoginLimiter,
	redisClient *redis.Client,
	secret string,
	tokenTTL time.Duration,
) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &authService{
		repo:        repo,
		activity:    activity,
		limiter:     limiter,
		redisClient: redisClient,
		secret:      secret,
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	userID := strings.TrimSpace(input.UserID)

	locked, wait, err := s.limiter.Locked(ctx, userID)
	if err != nil {
		log.Printf("Login rate limit check failed for %s: %v", userID, err)
	}
	if locked {
		msg := fmt.Sprintf("too many failed attempts, try again in %s", wait.Round(time.Second))
		return nil, apperror.New(http.StatusTooManyRequests, msg, apperror.ErrRateLimitExceeded)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.failed(ctx, userID)
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	ok, legacy := CheckPassword(user.PasswordHash, input.Password)
	if !ok {
		s.failed(ctx, userID)
		return nil, errInvalidCredentials
	}

	if legacy {
		if hash, err := HashPassword(input.Password); err == nil {
			user.PasswordHash = hash
			if err := s.repo.Update(ctx, user); err != nil {
				log.Printf("Failed to upgrade stored password for %s: %v", user.ID, err)
			}
		}
	}

	if err := s.limiter.Clear(ctx, userID); err != nil {
		log.Printf("Failed to clear login attempts for %s: %v", userID, err)
	}
	s.activity.Record(ctx, user.ID, "Logged in")

	return s.buildAuthResponse(user)
}

// Logout revokes the session token until it would have expired anyway.
func (s *authService) Logout(ctx context.Context, sess *session.Session) error {
	if s.redisClient != nil && sess.TokenID != "" {
		ttl := time.Until(sess.ExpiresAt)
		if ttl > 0 {
			if err := s.redisClient.Set(ctx, session.RevokedKey(sess.TokenID), "1", ttl).Err(); err != nil {
				return fmt.Errorf("failed to revoke token: %w", err)
			}
		}
	}
	s.activity.Record(ctx, sess.UserID(), "Logged out")
	return nil
}

func (s *authService) failed(ctx context.Context, userID string) {
	if err := s.limiter.Fail(ctx, userID); err != nil {
		log.Printf("Failed to record login attempt for %s: %v", userID, err)
	}
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
		Dashboard:   Dashboard(user.Role),
	}, nil
}

func (s *authService) generateToken(user *entity.User) (string, int64, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   user.ID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}

// Dashboard returns the API area of a role.
func Dashboard(role entity.Role) string {
	switch role {
	case entity.RoleAdmin:
		return "admin"
	case entity.RoleAcademicLeader:
		return "leader"
	case entity.RoleLecturer:
		return "lecturer"
	default:
		return "student"
	}
}
