package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	EnrollmentsFile = "enrollments.txt"

	colStudent = 1
	colClass   = 2
)

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *entity.Enrollment) error
	FindByStudent(ctx context.Context, studentID string) ([]*entity.Enrollment, error)
	FindByClass(ctx context.Context, classID string) ([]*entity.Enrollment, error)
	Count(ctx context.Context) (int, error)
}

type enrollmentRepository struct {
	table *repository.Table[entity.Enrollment]
}

func NewEnrollmentRepository(store *flatfile.Store) EnrollmentRepository {
	return &enrollmentRepository{
		table: repository.NewTable(store, EnrollmentsFile, "enrollment", entity.EnrollmentFromRecord),
	}
}

// Create stores enrollment. A student holds at most one enrollment per
// class; a second one is apperror.ErrConflict.
func (r *enrollmentRepository) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	key := enrollment.StudentID + " in " + enrollment.ClassID
	return r.table.InsertUnique(ctx, key, enrollment, func(e *entity.Enrollment) bool {
		return e.StudentID == enrollment.StudentID && e.ClassID == enrollment.ClassID
	})
}

func (r *enrollmentRepository) FindByStudent(ctx context.Context, studentID string) ([]*entity.Enrollment, error) {
	return r.table.Where(ctx, colStudent, studentID)
}

func (r *enrollmentRepository) FindByClass(ctx context.Context, classID string) ([]*entity.Enrollment, error) {
	return r.table.Where(ctx, colClass, classID)
}

func (r *enrollmentRepository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}
