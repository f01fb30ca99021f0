package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	"anoa.com/academicrecords/internal/modules/class/dto"
	"anoa.com/academicrecords/internal/modules/class/repository"
	enrollmentRepo "anoa.com/academicrecords/internal/modules/enrollment/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/validator"
)

type ClassService interface {
	GetAll(ctx context.Context) ([]*entity.Class, error)
	Create(ctx context.Context, sess *session.Session, input dto.CreateClassInput) (*entity.Class, error)
	UpdateIntake(ctx context.Context, sess *session.Session, id string, input dto.UpdateClassInput) (*entity.Class, error)
	Delete(ctx context.Context, sess *session.Session, id string) error
}

type classService struct {
	classes     repository.ClassRepository
	modules     moduleRepo.ModuleRepository
	enrollments enrollmentRepo.EnrollmentRepository
	activity    activity.ActivityService
}

func NewClassService(
	classes repository.ClassRepository,
	modules moduleRepo.ModuleRepository,
	enrollments enrollmentRepo.EnrollmentRepository,
	activity activity.ActivityService,
) ClassService {
	return &classService{
		classes:     classes,
		modules:     modules,
		enrollments: enrollments,
		activity:    activity,
	}
}

func (s *classService) GetAll(ctx context.Context) ([]*entity.Class, error) {
	return s.classes.FindAll(ctx)
}

func (s *classService) Create(ctx context.Context, sess *session.Session, input dto.CreateClassInput) (*entity.Class, error) {
	class := &entity.Class{
		ID:         strings.TrimSpace(input.ID),
		ModuleCode: strings.TrimSpace(input.ModuleCode),
		Intake:     strings.TrimSpace(input.Intake),
	}

	if _, err := s.modules.FindByCode(ctx, class.ModuleCode); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("module %s does not exist: %w", class.ModuleCode, apperror.ErrInvalidInput)
		}
		return nil, err
	}

	if err := validator.StructExcept(class, "ID"); err != nil {
		return nil, err
	}
	// An empty id is assigned by the repository; a taken one is a conflict.
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, sess.UserID(), "Created class %s for %s", class.ID, class.ModuleCode)
	return class, nil
}

func (s *classService) UpdateIntake(ctx context.Context, sess *session.Session, id string, input dto.UpdateClassInput) (*entity.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	class.Intake = strings.TrimSpace(input.Intake)
	if err := validator.Struct(class); err != nil {
		return nil, err
	}
	if err := s.classes.Update(ctx, class); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, sess.UserID(), "Updated class %s intake", class.ID)
	return class, nil
}

func (s *classService) Delete(ctx context.Context, sess *session.Session, id string) error {
	if _, err := s.classes.FindByID(ctx, id); err != nil {
		return err
	}
	enrolled, err := s.enrollments.FindByClass(ctx, id)
	if err != nil {
		return err
	}
	if len(enrolled) > 0 {
		return fmt.Errorf("class %s has %d enrollment(s): %w", id, len(enrolled), apperror.ErrConflict)
	}

	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, sess.UserID(), "Deleted class %s", id)
	return nil
}
