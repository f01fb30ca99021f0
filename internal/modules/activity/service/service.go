package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"anoa.com/academicrecords/internal/entity"
	"anoa.com/academicrecords/internal/modules/activity/dto"
	"anoa.com/academicrecords/internal/modules/activity/repository"
	"anoa.com/academicrecords/pkg/flatfile"
	"github.com/redis/go-redis/v9"
)

// Channel is the redis channel live activity entries are published on.
const Channel = "activity_log"

const defaultListLimit = 100

type ActivityService interface {
	// Record appends an entry to the audit trail. Failures are logged and
	// never surface to the caller's operation.
	Record(ctx context.Context, actorID, format string, args ...any)
	List(ctx context.Context, filter dto.ActivityFilter) (*dto.ActivityListResponse, error)
}

type activityService struct {
	repo        repository.ActivityRepository
	redisClient *redis.Client
	now         func() time.Time
}

func NewActivityService(repo repository.ActivityRepository, redisClient *redis.Client) ActivityService {
	return &activityService{
		repo:        repo,
		redisClient: redisClient,
		now:         time.Now,
	}
}

func (s *activityService) Record(ctx context.Context, actorID, format string, args ...any) {
	entry := &entity.ActivityLog{
		Timestamp: s.now().Truncate(time.Second),
		ActorID:   flatfile.Sanitize(actorID),
		Action:    flatfile.Sanitize(fmt.Sprintf(format, args...)),
	}
	if err := s.repo.Append(ctx, entry); err != nil {
		log.Printf("[activity] failed to record %q for %s: %v", entry.Action, entry.ActorID, err)
		return
	}

	if s.redisClient != nil {
		payload, err := json.Marshal(entry)
		if err == nil {
			if err := s.redisClient.Publish(ctx, Channel, payload).Err(); err != nil {
				log.Printf("[activity] publish failed: %v", err)
			}
		}
	}
}

// List returns entries newest first.
func (s *activityService) List(ctx context.Context, filter dto.ActivityFilter) (*dto.ActivityListResponse, error) {
	var (
		entries []*entity.ActivityLog
		err     error
	)
	if filter.ActorID != "" {
		entries, err = s.repo.FindByActor(ctx, filter.ActorID)
	} else {
		entries, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	total := len(entries)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	data := make([]*entity.ActivityLog, 0, min(limit, total))
	for i := total - 1; i >= 0 && len(data) < limit; i-- {
		data = append(data, entries[i])
	}
	return &dto.ActivityListResponse{Data: data, Total: total}, nil
}
