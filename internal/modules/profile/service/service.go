package profile

import (
	"context"
	"fmt"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	profileDto "anoa.com/academicrecords/internal/modules/profile/dto"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	auth "anoa.com/academicrecords/internal/modules/user/service"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/validator"
)

type ProfileService interface {
	GetCurrentProfile(ctx context.Context, sess *session.Session) (*entity.User, error)
	UpdateProfile(ctx context.Context, sess *session.Session, input profileDto.UpdateProfileInput) (*entity.User, error)
	ChangePassword(ctx context.Context, sess *session.Session, input profileDto.ChangePasswordInput) error
}

type profileService struct {
	repo     userRepo.UserRepository
	activity activity.ActivityService
}

func NewProfileService(repo userRepo.UserRepository, activity activity.ActivityService) ProfileService {
	return &profileService{
		repo:     repo,
		activity: activity,
	}
}

func (s *profileService) GetCurrentProfile(ctx context.Context, sess *session.Session) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, sess *session.Session, input profileDto.UpdateProfileInput) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	apply(&user.FullName, input.FullName)
	apply(&user.Gender, input.Gender)
	apply(&user.Email, input.Email)
	apply(&user.Phone, input.Phone)
	apply(&user.Age, input.Age)
	apply(&user.DOB, input.DOB)

	if err := validator.Struct(user); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.activity.Record(ctx, user.ID, "Updated own profile")

	user.PasswordHash = ""
	return user, nil
}

func (s *profileService) ChangePassword(ctx context.Context, sess *session.Session, input profileDto.ChangePasswordInput) error {
	user, err := s.repo.FindByID(ctx, sess.UserID())
	if err != nil {
		return err
	}

	if ok, _ := auth.CheckPassword(user.PasswordHash, input.OldPassword); !ok {
		return fmt.Errorf("current password is incorrect: %w", apperror.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.activity.Record(ctx, user.ID, "Changed password")
	return nil
}

func apply(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
