package service

import (
	"context"
	"fmt"
	"time"

	"anoa.com/academicrecords/internal/entity"
	assessmentRepo "anoa.com/academicrecords/internal/modules/assessment/repository"
	gradingRepo "anoa.com/academicrecords/internal/modules/grading/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	"anoa.com/academicrecords/internal/modules/report/dto"
	resultRepo "anoa.com/academicrecords/internal/modules/result/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
)

type ReportService interface {
	GenerateReport(ctx context.Context, sess *session.Session, moduleCode string) (*dto.Report, error)
}

type reportService struct {
	modules     moduleRepo.ModuleRepository
	assessments assessmentRepo.AssessmentRepository
	results     resultRepo.ResultRepository
	grading     gradingRepo.GradingRepository
	minResults  int
	now         func() time.Time
}

func NewReportService(
	modules moduleRepo.ModuleRepository,
	assessments assessmentRepo.AssessmentRepository,
	results resultRepo.ResultRepository,
	grading gradingRepo.GradingRepository,
	minResults int,
) ReportService {
	if minResults <= 0 {
		minResults = DefaultMinResults
	}
	return &reportService{
		modules:     modules,
		assessments: assessments,
		results:     results,
		grading:     grading,
		minResults:  minResults,
		now:         time.Now,
	}
}

func (s *reportService) GenerateReport(ctx context.Context, sess *session.Session, moduleCode string) (*dto.Report, error) {
	module, err := s.modules.FindByCode(ctx, moduleCode)
	if err != nil {
		return nil, err
	}

	switch {
	case sess.HasRole(entity.RoleAdmin):
	case sess.HasRole(entity.RoleAcademicLeader) && module.LeaderID == sess.UserID():
	default:
		return nil, fmt.Errorf("module %s is not led by %s: %w", module.Code, sess.UserID(), apperror.ErrForbidden)
	}

	assessments, err := s.assessments.FindByModule(ctx, module.Code)
	if err != nil {
		return nil, err
	}
	byAssessment := make(map[string][]*entity.Result, len(assessments))
	for _, a := range assessments {
		results, err := s.results.FindByAssessment(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		byAssessment[a.ID] = results
	}
	scale, err := s.grading.Scale(ctx)
	if err != nil {
		return nil, err
	}

	report := Aggregate(assessments, byAssessment, scale, s.minResults)
	report.ModuleCode = module.Code
	report.ModuleName = module.Name
	report.GeneratedAt = s.now()
	return &report, nil
}
