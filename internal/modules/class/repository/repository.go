package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	ClassesFile = "classes.txt"

	colID     = 0
	colModule = 1
)

type ClassRepository interface {
	Create(ctx context.Context, class *entity.Class) error
	FindByID(ctx context.Context, id string) (*entity.Class, error)
	FindAll(ctx context.Context) ([]*entity.Class, error)
	FindByModule(ctx context.Context, moduleCode string) ([]*entity.Class, error)
	Update(ctx context.Context, class *entity.Class) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type classRepository struct {
	table *repository.Table[entity.Class]
}

func NewClassRepository(store *flatfile.Store) ClassRepository {
	return &classRepository{
		table: repository.NewTable(store, ClassesFile, "class", entity.ClassFromRecord),
	}
}

// Create stores class, assigning the next CLS id when its ID is empty.
// A taken id is apperror.ErrConflict.
func (r *classRepository) Create(ctx context.Context, class *entity.Class) error {
	if class.ID != "" {
		return r.table.Insert(ctx, class)
	}
	return r.table.InsertNext(ctx, "CLS", 3, 1, func(id string) (repository.Entity, error) {
		class.ID = id
		return class, nil
	})
}

func (r *classRepository) FindByID(ctx context.Context, id string) (*entity.Class, error) {
	return r.table.First(ctx, colID, id)
}

func (r *classRepository) FindAll(ctx context.Context) ([]*entity.Class, error) {
	return r.table.All(ctx)
}

func (r *classRepository) FindByModule(ctx context.Context, moduleCode string) ([]*entity.Class, error) {
	return r.table.Where(ctx, colModule, moduleCode)
}

func (r *classRepository) Update(ctx context.Context, class *entity.Class) error {
	return r.table.Replace(ctx, colID, class.ID, class)
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	return r.table.Remove(ctx, colID, id)
}

func (r *classRepository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}

