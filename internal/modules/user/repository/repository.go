package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	UsersFile = "users.txt"

	colID = 0
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindByRole(ctx context.Context, role entity.Role) ([]*entity.User, error)
	FindBySupervisor(ctx context.Context, leaderID string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	// CreateNext gives user the next id for its role, lets prepare fill
	// fields derived from the id and stores it, all under one lock.
	CreateNext(ctx context.Context, user *entity.User, prepare func(*entity.User) error) error
}

type userRepository struct {
	table *repository.Table[entity.User]
}

func NewUserRepository(store *flatfile.Store) UserRepository {
	return &userRepository{
		table: repository.NewTable(store, UsersFile, "user", entity.UserFromRecord),
	}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.table.Insert(ctx, user)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.table.First(ctx, colID, id)
}

func (r *userRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	return r.table.All(ctx)
}

// FindByRole filters decoded users so that role aliases on disk match too.
func (r *userRepository) FindByRole(ctx context.Context, role entity.Role) ([]*entity.User, error) {
	users, err := r.table.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]*entity.User, 0)
	for _, u := range users {
		if u.Role == role {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func (r *userRepository) FindBySupervisor(ctx context.Context, leaderID string) ([]*entity.User, error) {
	lecturers, err := r.FindByRole(ctx, entity.RoleLecturer)
	if err != nil {
		return nil, err
	}
	matched := make([]*entity.User, 0)
	for _, u := range lecturers {
		if u.SupervisorID != nil && *u.SupervisorID == leaderID {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.table.Replace(ctx, colID, user.ID, user)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.table.Remove(ctx, colID, id)
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	return r.table.Count(ctx)
}

func (r *userRepository) CreateNext(ctx context.Context, user *entity.User, prepare func(*entity.User) error) error {
	prefix, floor := user.Role.IDPrefix()
	return r.table.InsertNext(ctx, prefix, 5, floor, func(id string) (repository.Entity, error) {
		user.ID = id
		if prepare != nil {
			if err := prepare(user); err != nil {
				return nil, err
			}
		}
		return user, nil
	})
}
