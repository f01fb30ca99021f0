package service

import (
	"context"

	"anoa.com/academicrecords/internal/entity"
	assessmentRepo "anoa.com/academicrecords/internal/modules/assessment/repository"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	enrollmentRepo "anoa.com/academicrecords/internal/modules/enrollment/repository"
	feedbackRepo "anoa.com/academicrecords/internal/modules/feedback/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	resultRepo "anoa.com/academicrecords/internal/modules/result/repository"
	"anoa.com/academicrecords/internal/modules/stat/dto"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
)

type StatService interface {
	GetOverview(ctx context.Context) (*dto.Overview, error)
}

// Counter is any repository that can report its size.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

type statService struct {
	users  userRepo.UserRepository
	tables map[string]Counter
}

func NewStatService(
	users userRepo.UserRepository,
	modules moduleRepo.ModuleRepository,
	classes classRepo.ClassRepository,
	assessments assessmentRepo.AssessmentRepository,
	results resultRepo.ResultRepository,
	enrollments enrollmentRepo.EnrollmentRepository,
	feedback feedbackRepo.FeedbackRepository,
) StatService {
	return &statService{
		users: users,
		tables: map[string]Counter{
			"modules":     modules,
			"classes":     classes,
			"assessments": assessments,
			"results":     results,
			"enrollments": enrollments,
			"feedback":    feedback,
		},
	}
}

func (s *statService) GetOverview(ctx context.Context) (*dto.Overview, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &dto.Overview{
		TotalUsers:  len(users),
		UsersByRole: make(map[string]int, len(entity.Roles)),
		Tables:      make(map[string]int, len(s.tables)),
	}
	for _, r := range entity.Roles {
		out.UsersByRole[string(r)] = 0
	}
	for _, u := range users {
		out.UsersByRole[string(u.Role)]++
	}

	for name, repo := range s.tables {
		n, err := repo.Count(ctx)
		if err != nil {
			return nil, err
		}
		out.Tables[name] = n
	}
	return out, nil
}
