package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	FeedbackFile = "student_feedback.txt"

	colStudent  = 1
	colLecturer = 2
)

type FeedbackRepository interface {
	Create(ctx context.Context, feedback *entity.Feedback) error
	FindByLecturer(ctx context.Context, lecturerID string) ([]*entity.Feedback, error)
	FindByStudent(ctx context.Context, studentID string) ([]*entity.Feedback, error)
	Count(ctx context.Context) (int, error)
}

type feedbackRepository struct {
	table *repository.Table[entity.Feedback]
}

func NewFeedbackRepository(store *flatfile.Store) FeedbackRepository {
	return &feedbackRepository{
		table: repository.NewTable(store, FeedbackFile, "feedback", entity.FeedbackFromRecord),
	}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *entity.Feedback) error {
	return r.table.Insert(ctx, feedback)
}

func (r *feedbackRepository) FindByLecturer(ctx context.Context, lecturerID string) ([]*entity.Feedback, error) {
	return r.table.Where(ctx, colLecturer, lecturerID)
}

func (r *feedbackRepository) FindByStudent(ctx context.Context, studentID string) ([]*entity.Feedback, error) {
	return r.table.Where(ctx, colStudent, studentID)
}

func (r *feedbackRepository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}
