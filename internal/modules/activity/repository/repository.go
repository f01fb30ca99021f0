package repository

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/repository"
	"anoa.com/academicrecords/pkg/flatfile"
)

const (
	ActivityFile = "activity_log.txt"

	colActor = 1
)

type ActivityRepository interface {
	Append(ctx context.Context, entry *entity.ActivityLog) error
	FindAll(ctx context.Context) ([]*entity.ActivityLog, error)
	FindByActor(ctx context.Context, actorID string) ([]*entity.ActivityLog, error)
}

type activityRepository struct {
	table *repository.Table[entity.ActivityLog]
}

func NewActivityRepository(store *flatfile.Store) ActivityRepository {
	return &activityRepository{
		table: repository.NewTable(store, ActivityFile, "activity", entity.ActivityLogFromRecord),
	}
}

func (r *activityRepository) Append(ctx context.Context, entry *entity.ActivityLog) error {
	return r.table.Append(ctx, entry)
}

func (r *activityRepository) FindAll(ctx context.Context) ([]*entity.ActivityLog, error) {
	return r.table.All(ctx)
}

func (r *activityRepository) FindByActor(ctx context.Context, actorID string) ([]*entity.ActivityLog, error) {
	return r.table.Where(ctx, colActor, actorID)
}
