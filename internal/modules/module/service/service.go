package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	assessmentRepo "anoa.com/academicrecords/internal/modules/assessment/repository"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	"anoa.com/academicrecords/internal/modules/module/dto"
	"anoa.com/academicrecords/internal/modules/module/repository"
	search "anoa.com/academicrecords/internal/modules/search/service"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/validator"
)

type ModuleService interface {
	GetAll(ctx context.Context) ([]*entity.Module, error)
	// GetMine lists modules the session user leads or teaches.
	GetMine(ctx context.Context, sess *session.Session) ([]*entity.Module, error)
	Create(ctx context.Context, sess *session.Session, input dto.CreateModuleInput) (*entity.Module, error)
	AssignLecturer(ctx context.Context, sess *session.Session, code string, input dto.AssignLecturerInput) (*entity.Module, error)
	Delete(ctx context.Context, sess *session.Session, code string) error
	GetSupervisedLecturers(ctx context.Context, sess *session.Session) ([]dto.LecturerSummary, error)
}

type moduleService struct {
	modules     repository.ModuleRepository
	users       userRepo.UserRepository
	assessments assessmentRepo.AssessmentRepository
	classes     classRepo.ClassRepository
	search      search.SearchService
	activity    activity.ActivityService
}

func NewModuleService(
	modules repository.ModuleRepository,
	users userRepo.UserRepository,
	assessments assessmentRepo.AssessmentRepository,
	classes classRepo.ClassRepository,
	searchSvc search.SearchService,
	activity activity.ActivityService,
) ModuleService {
	return &moduleService{
		modules:     modules,
		users:       users,
		assessments: assessments,
		classes:     classes,
		search:      searchSvc,
		activity:    activity,
	}
}

func (s *moduleService) GetAll(ctx context.Context) ([]*entity.Module, error) {
	return s.modules.FindAll(ctx)
}

func (s *moduleService) GetMine(ctx context.Context, sess *session.Session) ([]*entity.Module, error) {
	switch sess.User.Role {
	case entity.RoleAcademicLeader:
		return s.modules.FindByLeader(ctx, sess.UserID())
	case entity.RoleLecturer:
		return s.modules.FindByLecturer(ctx, sess.UserID())
	}
	return nil, apperror.ErrForbidden
}

func (s *moduleService) Create(ctx context.Context, sess *session.Session, input dto.CreateModuleInput) (*entity.Module, error) {
	module := &entity.Module{
		Code:     strings.TrimSpace(input.Code),
		Name:     strings.TrimSpace(input.Name),
		LeaderID: sess.UserID(),
	}

	lecturerID, err := s.checkLecturer(ctx, input.LecturerID)
	if err != nil {
		return nil, err
	}
	module.LecturerID = lecturerID

	if err := validator.Struct(module); err != nil {
		return nil, err
	}
	if err := s.modules.Create(ctx, module); err != nil {
		return nil, err
	}

	s.index(module)
	s.activity.Record(ctx, sess.UserID(), "Created module %s", module.Code)
	return module, nil
}

func (s *moduleService) AssignLecturer(ctx context.Context, sess *session.Session, code string, input dto.AssignLecturerInput) (*entity.Module, error) {
	module, err := s.owned(ctx, sess, code)
	if err != nil {
		return nil, err
	}

	lecturerID, err := s.checkLecturer(ctx, input.LecturerID)
	if err != nil {
		return nil, err
	}
	module.LecturerID = lecturerID
	if err := s.modules.Update(ctx, module); err != nil {
		return nil, err
	}

	s.index(module)
	if lecturerID == nil {
		s.activity.Record(ctx, sess.UserID(), "Unassigned lecturer from module %s", module.Code)
	} else {
		s.activity.Record(ctx, sess.UserID(), "Assigned lecturer %s to module %s", *lecturerID, module.Code)
	}
	return module, nil
}

func (s *moduleService) Delete(ctx context.Context, sess *session.Session, code string) error {
	if _, err := s.owned(ctx, sess, code); err != nil {
		return err
	}

	assessments, err := s.assessments.FindByModule(ctx, code)
	if err != nil {
		return err
	}
	if len(assessments) > 0 {
		return fmt.Errorf("module %s has %d assessment(s): %w", code, len(assessments), apperror.ErrConflict)
	}
	classes, err := s.classes.FindByModule(ctx, code)
	if err != nil {
		return err
	}
	if len(classes) > 0 {
		return fmt.Errorf("module %s has %d class(es): %w", code, len(classes), apperror.ErrConflict)
	}

	if err := s.modules.Delete(ctx, code); err != nil {
		return err
	}
	if err := s.search.DeleteModule(code); err != nil {
		log.Printf("Failed to remove module %s from search index: %v", code, err)
	}
	s.activity.Record(ctx, sess.UserID(), "Deleted module %s", code)
	return nil
}

func (s *moduleService) GetSupervisedLecturers(ctx context.Context, sess *session.Session) ([]dto.LecturerSummary, error) {
	lecturers, err := s.users.FindBySupervisor(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	out := make([]dto.LecturerSummary, 0, len(lecturers))
	for _, l := range lecturers {
		taught, err := s.modules.FindByLecturer(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		codes := make([]string, 0, len(taught))
		for _, m := range taught {
			codes = append(codes, m.Code)
		}
		out = append(out, dto.LecturerSummary{ID: l.ID, FullName: l.FullName, Email: l.Email, Modules: codes})
	}
	return out, nil
}

// owned loads a module the session user leads.
func (s *moduleService) owned(ctx context.Context, sess *session.Session, code string) (*entity.Module, error) {
	module, err := s.modules.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if module.LeaderID != sess.UserID() {
		return nil, fmt.Errorf("module %s is led by another leader: %w", code, apperror.ErrForbidden)
	}
	return module, nil
}

func (s *moduleService) checkLecturer(ctx context.Context, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	lecturerID := strings.TrimSpace(*id)
	user, err := s.users.FindByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("lecturer %s does not exist: %w", lecturerID, apperror.ErrInvalidInput)
		}
		return nil, err
	}
	if user.Role != entity.RoleLecturer {
		return nil, fmt.Errorf("%s is not a lecturer: %w", lecturerID, apperror.ErrInvalidInput)
	}
	return &lecturerID, nil
}

func (s *moduleService) index(module *entity.Module) {
	if err := s.search.IndexModules(module); err != nil {
		log.Printf("Failed to index module %s: %v", module.Code, err)
	}
}
