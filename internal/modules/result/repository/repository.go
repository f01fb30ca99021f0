package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	ResultsFile = "results.txt"

	colID         = 0
	colAssessment = 1
	colStudent    = 2
)

type ResultRepository interface {
	Create(ctx context.Context, result *entity.Result) error
	FindByID(ctx context.Context, id string) (*entity.Result, error)
	FindByAssessment(ctx context.Context, assessmentID string) ([]*entity.Result, error)
	FindByStudent(ctx context.Context, studentID string) ([]*entity.Result, error)
	FindByAssessmentAndStudent(ctx context.Context, assessmentID, studentID string) (*entity.Result, error)
	Update(ctx context.Context, result *entity.Result) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// Save stores result as the only result for its (assessment, student)
	// pair. An existing row for the pair is replaced in place and keeps its
	// id; otherwise result gets the next RES id. Save reports whether a row
	// was created.
	Save(ctx context.Context, result *entity.Result) (bool, error)
}

type resultRepository struct {
	table *repository.Table[entity.Result]
}

func NewResultRepository(store *flatfile.Store) ResultRepository {
	return &resultRepository{
		table: repository.NewTable(store, ResultsFile, "result", entity.ResultFromRecord),
	}
}

func (r *resultRepository) Create(ctx context.Context, result *entity.Result) error {
	return r.table.Insert(ctx, result)
}

func (r *resultRepository) FindByID(ctx context.Context, id string) (*entity.Result, error) {
	return r.table.First(ctx, colID, id)
}

func (r *resultRepository) FindByAssessment(ctx context.Context, assessmentID string) ([]*entity.Result, error) {
	return r.table.Where(ctx, colAssessment, assessmentID)
}

func (r *resultRepository) FindByStudent(ctx context.Context, studentID string) ([]*entity.Result, error) {
	return r.table.Where(ctx, colStudent, studentID)
}

func (r *resultRepository) FindByAssessmentAndStudent(ctx context.Context, assessmentID, studentID string) (*entity.Result, error) {
	results, err := r.table.Where(ctx, colAssessment, assessmentID)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if res.StudentID == studentID {
			return res, nil
		}
	}
	return nil, apperror.ErrNotFound
}

func (r *resultRepository) Update(ctx context.Context, result *entity.Result) error {
	return r.table.Replace(ctx, colID, result.ID, result)
}

func (r *resultRepository) Delete(ctx context.Context, id string) error {
	return r.table.Remove(ctx, colID, id)
}

func (r *resultRepository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}

func (r *resultRepository) Save(ctx context.Context, result *entity.Result) (bool, error) {
	created := false
	err := r.table.Atomic(ctx, func(tx *repository.Tx[entity.Result]) error {
		existing := tx.Find(func(res *entity.Result) bool {
			return res.AssessmentID == result.AssessmentID && res.StudentID == result.StudentID
		})
		if existing != nil {
			result.ID = existing.ID
			return tx.Replace(colID, existing.ID, result)
		}
		result.ID = tx.NextID("RES", 5, 1)
		created = true
		return tx.Insert(result)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
