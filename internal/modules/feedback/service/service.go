package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	"anoa.com/academicrecords/internal/modules/feedback/dto"
	"anoa.com/academicrecords/internal/modules/feedback/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type FeedbackService interface {
	ListLecturers(ctx context.Context) ([]dto.ModuleLecturer, error)
	Submit(ctx context.Context, sess *session.Session, input dto.SubmitFeedbackInput) (*entity.Feedback, error)
	ListForLecturer(ctx context.Context, sess *session.Session) ([]dto.FeedbackView, error)
}

type feedbackService struct {
	feedback  repository.FeedbackRepository
	modules   moduleRepo.ModuleRepository
	users     userRepo.UserRepository
	activity  activity.ActivityService
	sanitizer *bluemonday.Policy
}

func NewFeedbackService(
	feedback repository.FeedbackRepository,
	modules moduleRepo.ModuleRepository,
	users userRepo.UserRepository,
	activity activity.ActivityService,
) FeedbackService {
	return &feedbackService{
		feedback:  feedback,
		modules:   modules,
		users:     users,
		activity:  activity,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *feedbackService) ListLecturers(ctx context.Context) ([]dto.ModuleLecturer, error) {
	modules, err := s.modules.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ModuleLecturer, 0, len(modules))
	for _, m := range modules {
		if m.LecturerID == nil {
			continue
		}
		row := dto.ModuleLecturer{LecturerID: *m.LecturerID, ModuleCode: m.Code, ModuleName: m.Name}
		if u, err := s.users.FindByID(ctx, *m.LecturerID); err == nil {
			row.FullName = u.FullName
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *feedbackService) Submit(ctx context.Context, sess *session.Session, input dto.SubmitFeedbackInput) (*entity.Feedback, error) {
	lecturerID := strings.TrimSpace(input.LecturerID)
	lecturer, err := s.users.FindByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("lecturer %s does not exist: %w", lecturerID, apperror.ErrInvalidInput)
		}
		return nil, err
	}
	if lecturer.Role != entity.RoleLecturer {
		return nil, fmt.Errorf("%s is not a lecturer: %w", lecturerID, apperror.ErrInvalidInput)
	}

	comment := s.clean(input.Comment)
	if comment == "" {
		return nil, fmt.Errorf("comment is empty: %w", apperror.ErrInvalidInput)
	}

	feedback := &entity.Feedback{
		ID:         "FB-" + uuid.NewString(),
		StudentID:  sess.UserID(),
		LecturerID: lecturer.ID,
		Comment:    comment,
	}
	if err := s.feedback.Create(ctx, feedback); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, sess.UserID(), "Left feedback for %s", lecturer.ID)
	return feedback, nil
}

func (s *feedbackService) ListForLecturer(ctx context.Context, sess *session.Session) ([]dto.FeedbackView, error) {
	list, err := s.feedback.FindByLecturer(ctx, sess.UserID())
	if err != nil {
		return nil, err
	}

	out := make([]dto.FeedbackView, 0, len(list))
	for _, f := range list {
		row := dto.FeedbackView{ID: f.ID, StudentID: f.StudentID, Comment: f.Comment}
		if u, err := s.users.FindByID(ctx, f.StudentID); err == nil {
			row.StudentName = u.FullName
		}
		out = append(out, row)
	}
	return out, nil
}

// clean strips markup and flattens the comment onto one storable line.
func (s *feedbackService) clean(comment string) string {
	return flatfile.Sanitize(html.UnescapeString(s.sanitizer.Sanitize(comment)))
}
