package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	"anoa.com/academicrecords/internal/modules/enrollment/dto"
	"anoa.com/academicrecords/internal/modules/enrollment/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"github.com/google/uuid"
)

type EnrollmentService interface {
	ListClasses(ctx context.Context, sess *session.Session) ([]dto.ClassView, error)
	Enroll(ctx context.Context, sess *session.Session, input dto.EnrollInput) (*entity.Enrollment, error)
	// ListStudents returns students enrolled in classes of the modules the
	// session lecturer teaches.
	ListStudents(ctx context.Context, sess *session.Session) ([]dto.EnrolledStudent, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	classes     classRepo.ClassRepository
	modules     moduleRepo.ModuleRepository
	users       userRepo.UserRepository
	activity    activity.ActivityService
}

func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	classes classRepo.ClassRepository,
	modules moduleRepo.ModuleRepository,
	users userRepo.UserRepository,
	activity activity.ActivityService,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		classes:     classes,
		modules:     modules,
		users:       users,
		activity:    activity,
	}
}

func (s *enrollmentService) ListClasses(ctx context.Context, sess *session.Session) ([]dto.ClassView, error) {
	classes, err := s.classes.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.enrolledClasses(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	out := make([]dto.ClassView, 0, len(classes))
	for _, c := range classes {
		name, ok := names[c.ModuleCode]
		if !ok {
			if m, err := s.modules.FindByCode(ctx, c.ModuleCode); err == nil {
				name = m.Name
			}
			names[c.ModuleCode] = name
		}

		status := dto.StatusAvailable
		if enrolled[c.ID] {
			status = dto.StatusEnrolled
		}
		out = append(out, dto.ClassView{
			ID:         c.ID,
			ModuleCode: c.ModuleCode,
			ModuleName: name,
			Intake:     c.Intake,
			Status:     status,
		})
	}
	return out, nil
}

func (s *enrollmentService) Enroll(ctx context.Context, sess *session.Session, input dto.EnrollInput) (*entity.Enrollment, error) {
	classID := strings.TrimSpace(input.ClassID)
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("class %s does not exist: %w", classID, apperror.ErrInvalidInput)
		}
		return nil, err
	}

	enrollment := &entity.Enrollment{
		ID:        "ENR-" + uuid.NewString(),
		StudentID: sess.UserID(),
		ClassID:   classID,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, sess.UserID(), "Enrolled in class %s", classID)
	return enrollment, nil
}

func (s *enrollmentService) ListStudents(ctx context.Context, sess *session.Session) ([]dto.EnrolledStudent, error) {
	taught, err := s.modules.FindByLecturer(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	out := make([]dto.EnrolledStudent, 0)
	for _, m := range taught {
		classes, err := s.classes.FindByModule(ctx, m.Code)
		if err != nil {
			return nil, err
		}
		for _, c := range classes {
			enrollments, err := s.enrollments.FindByClass(ctx, c.ID)
			if err != nil {
				return nil, err
			}
			for _, e := range enrollments {
				row := dto.EnrolledStudent{StudentID: e.StudentID, ClassID: c.ID, ModuleCode: m.Code}
				if u, err := s.users.FindByID(ctx, e.StudentID); err == nil {
					row.FullName = u.FullName
					row.Email = u.Email
				}
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (s *enrollmentService) enrolledClasses(ctx context.Context, studentID string) (map[string]bool, error) {
	enrollments, err := s.enrollments.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		set[e.ClassID] = true
	}
	return set, nil
}
