package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	assessmentRepo "anoa.com/academicrecords/internal/modules/assessment/repository"
	assessment "anoa.com/academicrecords/internal/modules/assessment/service"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	enrollmentRepo "anoa.com/academicrecords/internal/modules/enrollment/repository"
	gradingRepo "anoa.com/academicrecords/internal/modules/grading/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	"anoa.com/academicrecords/internal/modules/result/dto"
	"anoa.com/academicrecords/internal/modules/result/repository"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
	"anoa.com/academicrecords/pkg/validator"
)

type ResultService interface {
	// Record stores marks for a student on an assessment, replacing any
	// earlier result for the same pair.
	Record(ctx context.Context, sess *session.Session, input dto.RecordResultInput) (*dto.RecordResultResponse, error)
	ListByAssessment(ctx context.Context, sess *session.Session, assessmentID string) ([]dto.ResultView, error)
	// Roster lists every student enrolled in a class of the assessment's
	// module, plus any other student already graded on it, as Graded or
	// Pending.
	Roster(ctx context.Context, sess *session.Session, assessmentID string) ([]dto.RosterEntry, error)
	ListMine(ctx context.Context, sess *session.Session) ([]dto.ResultView, error)
}

type resultService struct {
	results     repository.ResultRepository
	assessments assessmentRepo.AssessmentRepository
	modules     moduleRepo.ModuleRepository
	users       userRepo.UserRepository
	classes     classRepo.ClassRepository
	enrollments enrollmentRepo.EnrollmentRepository
	grading     gradingRepo.GradingRepository
	activity    activity.ActivityService
}

func NewResultService(
	results repository.ResultRepository,
	assessments assessmentRepo.AssessmentRepository,
	modules moduleRepo.ModuleRepository,
	users userRepo.UserRepository,
	classes classRepo.ClassRepository,
	enrollments enrollmentRepo.EnrollmentRepository,
	grading gradingRepo.GradingRepository,
	activity activity.ActivityService,
) ResultService {
	return &resultService{
		results:     results,
		assessments: assessments,
		modules:     modules,
		users:       users,
		classes:     classes,
		enrollments: enrollments,
		grading:     grading,
		activity:    activity,
	}
}

func (s *resultService) Record(ctx context.Context, sess *session.Session, input dto.RecordResultInput) (*dto.RecordResultResponse, error) {
	a, err := s.assessments.FindByID(ctx, strings.TrimSpace(input.AssessmentID))
	if err != nil {
		return nil, err
	}
	if _, err := assessment.TaughtModule(ctx, s.modules, sess, a.ModuleCode); err != nil {
		return nil, err
	}

	student, err := s.users.FindByID(ctx, strings.TrimSpace(input.StudentID))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("student %s does not exist: %w", input.StudentID, apperror.ErrInvalidInput)
		}
		return nil, err
	}
	if student.Role != entity.RoleStudent {
		return nil, fmt.Errorf("%s is not a student: %w", student.ID, apperror.ErrInvalidInput)
	}

	if input.Marks == nil {
		return nil, fmt.Errorf("marks are required: %w", apperror.ErrInvalidInput)
	}
	marks := *input.Marks
	if marks < 0 || marks > a.MaxMarks {
		return nil, fmt.Errorf("marks must be between 0 and %d: %w", a.MaxMarks, apperror.ErrInvalidInput)
	}

	result := &entity.Result{
		AssessmentID: a.ID,
		StudentID:    student.ID,
		Marks:        marks,
		Feedback:     flatfile.Sanitize(input.Feedback),
	}
	if err := validator.StructExcept(result, "ID"); err != nil {
		return nil, err
	}
	created, err := s.results.Save(ctx, result)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, sess.UserID(), "Recorded %d/%d for %s on %s", marks, a.MaxMarks, student.ID, a.ID)

	scale, err := s.grading.Scale(ctx)
	if err != nil {
		return nil, err
	}
	view := toView(result, a, scale)
	view.StudentName = student.FullName
	return &dto.RecordResultResponse{Result: &view, Created: created}, nil
}

func (s *resultService) ListByAssessment(ctx context.Context, sess *session.Session, assessmentID string) ([]dto.ResultView, error) {
	a, err := s.assessments.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if _, err := assessment.TaughtModule(ctx, s.modules, sess, a.ModuleCode); err != nil {
		return nil, err
	}

	results, err := s.results.FindByAssessment(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	scale, err := s.grading.Scale(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ResultView, 0, len(results))
	for _, r := range results {
		view := toView(r, a, scale)
		if u, err := s.users.FindByID(ctx, r.StudentID); err == nil {
			view.StudentName = u.FullName
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (s *resultService) Roster(ctx context.Context, sess *session.Session, assessmentID string) ([]dto.RosterEntry, error) {
	a, err := s.assessments.FindByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if _, err := assessment.TaughtModule(ctx, s.modules, sess, a.ModuleCode); err != nil {
		return nil, err
	}

	classes, err := s.classes.FindByModule(ctx, a.ModuleCode)
	if err != nil {
		return nil, err
	}
	studentIDs := make(map[string]bool)
	for _, c := range classes {
		enrolled, err := s.enrollments.FindByClass(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, e := range enrolled {
			studentIDs[e.StudentID] = true
		}
	}

	results, err := s.results.FindByAssessment(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	byStudent := make(map[string]*entity.Result, len(results))
	for _, r := range results {
		if _, ok := byStudent[r.StudentID]; !ok {
			byStudent[r.StudentID] = r
		}
		studentIDs[r.StudentID] = true
	}

	scale, err := s.grading.Scale(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RosterEntry, 0, len(studentIDs))
	for id := range studentIDs {
		entry := dto.RosterEntry{StudentID: id, Status: dto.StatusPending, MaxMarks: a.MaxMarks}
		if u, err := s.users.FindByID(ctx, id); err == nil {
			entry.StudentName = u.FullName
		} else if !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		if r, ok := byStudent[id]; ok {
			marks := r.Marks
			entry.Status = dto.StatusGraded
			entry.ResultID = r.ID
			entry.Marks = &marks
			entry.Grade = scale.GradeOf(r.Marks)
			entry.Feedback = r.Feedback
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (s *resultService) ListMine(ctx context.Context, sess *session.Session) ([]dto.ResultView, error) {
	results, err := s.results.FindByStudent(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}
	scale, err := s.grading.Scale(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ResultView, 0, len(results))
	for _, r := range results {
		a, err := s.assessments.FindByID(ctx, r.AssessmentID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				// Orphaned result; the assessment row is gone.
				continue
			}
			return nil, err
		}
		out = append(out, toView(r, a, scale))
	}
	return out, nil
}

func toView(r *entity.Result, a *entity.Assessment, scale entity.GradeScale) dto.ResultView {
	return dto.ResultView{
		ID:              r.ID,
		AssessmentID:    a.ID,
		AssessmentTitle: a.Title,
		AssessmentType:  a.Type,
		ModuleCode:      a.ModuleCode,
		StudentID:       r.StudentID,
		Marks:           r.Marks,
		MaxMarks:        a.MaxMarks,
		Grade:           scale.GradeOf(r.Marks),
		Feedback:        r.Feedback,
	}
}
