package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	ModulesFile = "modules.txt"

	colCode     = 0
	colLeader   = 2
	colLecturer = 3
)

type ModuleRepository interface {
	Create(ctx context.Context, module *entity.Module) error
	FindByCode(ctx context.Context, code string) (*entity.Module, error)
	FindAll(ctx context.Context) ([]*entity.Module, error)
	FindByLeader(ctx context.Context, leaderID string) ([]*entity.Module, error)
	FindByLecturer(ctx context.Context, lecturerID string) ([]*entity.Module, error)
	Update(ctx context.Context, module *entity.Module) error
	Delete(ctx context.Context, code string) error
	Count(ctx context.Context) (int, error)
}

type moduleRepository struct {
	table *repository.Table[entity.Module]
}

func NewModuleRepository(store *flatfile.Store) ModuleRepository {
	return &moduleRepository{
		table: repository.NewTable(store, ModulesFile, "module", entity.ModuleFromRecord),
	}
}

func (r *moduleRepository) Create(ctx context.Context, module *entity.Module) error {
	return r.table.Insert(ctx, module)
}

func (r *moduleRepository) FindByCode(ctx context.Context, code string) (*entity.Module, error) {
	return r.table.First(ctx, colCode, code)
}

func (r *moduleRepository) FindAll(ctx context.Context) ([]*entity.Module, error) {
	return r.table.All(ctx)
}

func (r *moduleRepository) FindByLeader(ctx context.Context, leaderID string) ([]*entity.Module, error) {
	return r.table.Where(ctx, colLeader, leaderID)
}

func (r *moduleRepository) FindByLecturer(ctx context.Context, lecturerID string) ([]*entity.Module, error) {
	return r.table.Where(ctx, colLecturer, lecturerID)
}

func (r *moduleRepository) Update(ctx context.Context, module *entity.Module) error {
	return r.table.Replace(ctx, colCode, module.Code, module)
}

func (r *moduleRepository) Delete(ctx context.Context, code string) error {
	return r.table.Remove(ctx, colCode, code)
}

func (r *moduleRepository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}
