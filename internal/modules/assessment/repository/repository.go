package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	AssessmentsFile = "assessments.txt"

	colID     = 0
	colModule = 1
)

type AssessmentRepository interface {
	Create(ctx context.Context, assessment *entity.Assessment) error
	FindByID(ctx context.Context, id string) (*entity.Assessment, error)
	FindAll(ctx context.Context) ([]*entity.Assessment, error)
	FindByModule(ctx context.Context, moduleCode string) ([]*entity.Assessment, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type assessmentRepository struct {
	table *repository.Table[entity.Assessment]
}

func NewAssessmentRepository(store *flatfile.Store) AssessmentRepository {
	return &assessmentRepository{
		table: repository.NewTable(store, AssessmentsFile, "assessment", entity.AssessmentFromRecord),
	}
}

// Create stores assessment, assigning the next ASS id when its ID is empty.
func (r *assessmentRepository) Create(ctx context.Context, assessment *entity.Assessment) error {
	if assessment.ID != "" {
		return r.table.Insert(ctx, assessment)
	}
	return r.table.InsertNext(ctx, "ASS", 3, 1, func(id string) (repository.Entity, error) {
		assessment.ID = id
		return assessment, nil
	})
}

func (r *assessmentRepository) FindByID(ctx context.Context, id string) (*entity.Assessment, error) {
	return r.table.First(ctx, colID, id)
}

func (r *assessmentRepository) FindAll(ctx context.Context) ([]*entity.Assessment, error) {
	return r.table.All(ctx)
}

func (r *assessmentRepository) FindByModule(ctx context.Context, moduleCode string) ([]*entity.Assessment, error) {
	return r.table.Where(ctx, colModule, moduleCode)
}

func (r *assessmentRepository) Delete(ctx context.Context, id string) error {
	return r.table.Remove(ctx, colID, id)
}

func (r *assessmentRepository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}

