package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	"anoa.com/academicrecords/internal/modules/assessment/dto"
	"anoa.com/academicrecords/internal/modules/assessment/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	resultRepo "anoa.com/academicrecords/internal/modules/result/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
	"anoa.com/academicrecords/pkg/validator"
)

type AssessmentService interface {
	List(ctx context.Context, sess *session.Session, filter dto.AssessmentFilter) ([]*entity.Assessment, error)
	Create(ctx context.Context, sess *session.Session, input dto.CreateAssessmentInput) (*entity.Assessment, error)
	Delete(ctx context.Context, sess *session.Session, id string) error
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	modules     moduleRepo.ModuleRepository
	results     resultRepo.ResultRepository
	activity    activity.ActivityService
}

func NewAssessmentService(
	assessments repository.AssessmentRepository,
	modules moduleRepo.ModuleRepository,
	results resultRepo.ResultRepository,
	activity activity.ActivityService,
) AssessmentService {
	return &assessmentService{
		assessments: assessments,
		modules:     modules,
		results:     results,
		activity:    activity,
	}
}

// List returns assessments of the modules the lecturer teaches, optionally
// narrowed to one module.
func (s *assessmentService) List(ctx context.Context, sess *session.Session, filter dto.AssessmentFilter) ([]*entity.Assessment, error) {
	if filter.ModuleCode != "" {
		if _, err := TaughtModule(ctx, s.modules, sess, filter.ModuleCode); err != nil {
			return nil, err
		}
		return s.assessments.FindByModule(ctx, filter.ModuleCode)
	}

	taught, err := s.modules.FindByLecturer(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Assessment, 0)
	for _, m := range taught {
		list, err := s.assessments.FindByModule(ctx, m.Code)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}

func (s *assessmentService) Create(ctx context.Context, sess *session.Session, input dto.CreateAssessmentInput) (*entity.Assessment, error) {
	module, err := TaughtModule(ctx, s.modules, sess, strings.TrimSpace(input.ModuleCode))
	if err != nil {
		return nil, err
	}

	assessment := &entity.Assessment{
		ModuleCode: module.Code,
		Type:       flatfile.Sanitize(input.Type),
		Title:      flatfile.Sanitize(input.Title),
		MaxMarks:   input.MaxMarks,
	}
	if err := validator.StructExcept(assessment, "ID"); err != nil {
		return nil, err
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, sess.UserID(), "Created assessment %s for %s", assessment.ID, module.Code)
	return assessment, nil
}

func (s *assessmentService) Delete(ctx context.Context, sess *session.Session, id string) error {
	assessment, err := s.assessments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := TaughtModule(ctx, s.modules, sess, assessment.ModuleCode); err != nil {
		return err
	}

	results, err := s.results.FindByAssessment(ctx, id)
	if err != nil {
		return err
	}
	if len(results) > 0 {
		return fmt.Errorf("assessment %s has %d result(s): %w", id, len(results), apperror.ErrConflict)
	}

	if err := s.assessments.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, sess.UserID(), "Deleted assessment %s", id)
	return nil
}

// TaughtModule loads module code and checks the session lecturer teaches it.
func TaughtModule(ctx context.Context, modules moduleRepo.ModuleRepository, sess *session.Session, code string) (*entity.Module, error) {
	module, err := modules.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("module %s does not exist: %w", code, apperror.ErrInvalidInput)
		}
		return nil, err
	}
	if !module.TaughtBy(sess.UserID()) {
		return nil, fmt.Errorf("you do not teach module %s: %w", code, apperror.ErrForbidden)
	}
	return module, nil
}
