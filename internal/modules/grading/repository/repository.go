package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	GradingFile = "grading.txt"

	colGrade = 0
)

type GradingRepository interface {
	// Scale returns the bands in stored order.
	Scale(ctx context.Context) (entity.GradeScale, error)
	FindByGrade(ctx context.Context, grade string) (*entity.GradeBand, error)
	Create(ctx context.Context, band *entity.GradeBand) error
	Update(ctx context.Context, grade string, band *entity.GradeBand) error
	Delete(ctx context.Context, grade string) error
	// Modify replaces the stored scale with the one fn derives from it,
	// under one lock. Nothing is written when fn fails.
	Modify(ctx context.Context, fn func(current entity.GradeScale) (entity.GradeScale, error)) error
}

type gradingRepository struct {
	table *repository.Table[entity.GradeBand]
}

func NewGradingRepository(store *flatfile.Store) GradingRepository {
	return &gradingRepository{
		table: repository.NewTable(store, GradingFile, "grade", entity.GradeBandFromRecord),
	}
}

func (r *gradingRepository) Scale(ctx context.Context) (entity.GradeScale, error) {
	bands, err := r.table.All(ctx)
	if err != nil {
		return nil, err
	}
	return toScale(bands), nil
}

func toScale(bands []*entity.GradeBand) entity.GradeScale {
	scale := make(entity.GradeScale, 0, len(bands))
	for _, b := range bands {
		scale = append(scale, *b)
	}
	return scale
}

func (r *gradingRepository) FindByGrade(ctx context.Context, grade string) (*entity.GradeBand, error) {
	return r.table.First(ctx, colGrade, grade)
}

func (r *gradingRepository) Create(ctx context.Context, band *entity.GradeBand) error {
	return r.table.Insert(ctx, band)
}

// Update replaces the band labelled grade; the label itself may change.
func (r *gradingRepository) Update(ctx context.Context, grade string, band *entity.GradeBand) error {
	return r.table.Replace(ctx, colGrade, grade, band)
}

func (r *gradingRepository) Delete(ctx context.Context, grade string) error {
	return r.table.Remove(ctx, colGrade, grade)
}

func (r *gradingRepository) Modify(ctx context.Context, fn func(current entity.GradeScale) (entity.GradeScale, error)) error {
	return r.table.Atomic(ctx, func(tx *repository.Tx[entity.GradeBand]) error {
		next, err := fn(toScale(tx.All()))
		if err != nil {
			return err
		}
		bands := make([]repository.Entity, 0, len(next))
		for i := range next {
			bands = append(bands, &next[i])
		}
		return tx.ReplaceAll(bands...)
	})
}
