package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"anoa.com/academicrecords/internal/entity"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	"anoa.com/academicrecords/internal/modules/grading/dto"
	"anoa.com/academicrecords/internal/modules/grading/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
)

type GradingService interface {
	GetScale(ctx context.Context) (*dto.GradingResponse, error)
	// ReplaceScale swaps in a whole new scale, which must be disjoint and
	// cover every mark in 0..100.
	ReplaceScale(ctx context.Context, sess *session.Session, req dto.ReplaceScaleRequest) (entity.GradeScale, error)
	CreateBand(ctx context.Context, sess *session.Session, req dto.GradeBandRequest) (*entity.GradeBand, error)
	UpdateBand(ctx context.Context, sess *session.Session, grade string, req dto.GradeBandRequest) (*entity.GradeBand, error)
	DeleteBand(ctx context.Context, sess *session.Session, grade string) error
}

type gradingService struct {
	repo     repository.GradingRepository
	activity activity.ActivityService
}

func NewGradingService(repo repository.GradingRepository, activity activity.ActivityService) GradingService {
	return &gradingService{repo: repo, activity: activity}
}

func (s *gradingService) GetScale(ctx context.Context) (*dto.GradingResponse, error) {
	scale, err := s.repo.Scale(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.GradingResponse{Bands: scale, Gaps: scale.Gaps()}, nil
}

func (s *gradingService) ReplaceScale(ctx context.Context, sess *session.Session, req dto.ReplaceScaleRequest) (entity.GradeScale, error) {
	next := make(entity.GradeScale, 0, len(req.Bands))
	for _, r := range req.Bands {
		band := r.Band()
		band.Grade = strings.TrimSpace(band.Grade)
		next = append(next, band)
	}
	if err := next.ValidateComplete(); err != nil {
		return nil, invalid(err)
	}

	err := s.repo.Modify(ctx, func(entity.GradeScale) (entity.GradeScale, error) {
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, sess.UserID(), "Replaced grade scale with %d band(s)", len(next))
	return next, nil
}

func (s *gradingService) CreateBand(ctx context.Context, sess *session.Session, req dto.GradeBandRequest) (*entity.GradeBand, error) {
	band := req.Band()
	band.Grade = strings.TrimSpace(band.Grade)

	err := s.change(ctx, func(scale entity.GradeScale) (entity.GradeScale, error) {
		for _, b := range scale {
			if b.Grade == band.Grade {
				return nil, fmt.Errorf("grade %s already exists: %w", band.Grade, apperror.ErrConflict)
			}
		}
		return append(scale, band), nil
	})
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, sess.UserID(), "Added grade %s (%d-%d)", band.Grade, band.MinMarks, band.MaxMarks)
	return &band, nil
}

func (s *gradingService) UpdateBand(ctx context.Context, sess *session.Session, grade string, req dto.GradeBandRequest) (*entity.GradeBand, error) {
	band := req.Band()
	band.Grade = strings.TrimSpace(band.Grade)

	err := s.change(ctx, func(scale entity.GradeScale) (entity.GradeScale, error) {
		next := make(entity.GradeScale, 0, len(scale))
		found := false
		for _, b := range scale {
			if b.Grade == grade && !found {
				found = true
				next = append(next, band)
				continue
			}
			next = append(next, b)
		}
		if !found {
			return nil, fmt.Errorf("grade %s: %w", grade, apperror.ErrNotFound)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, sess.UserID(), "Updated grade %s to %s (%d-%d)", grade, band.Grade, band.MinMarks, band.MaxMarks)
	return &band, nil
}

func (s *gradingService) DeleteBand(ctx context.Context, sess *session.Session, grade string) error {
	err := s.change(ctx, func(scale entity.GradeScale) (entity.GradeScale, error) {
		next := make(entity.GradeScale, 0, len(scale))
		found := false
		for _, b := range scale {
			if b.Grade == grade && !found {
				found = true
				continue
			}
			next = append(next, b)
		}
		if !found {
			return nil, fmt.Errorf("grade %s: %w", grade, apperror.ErrNotFound)
		}
		return next, nil
	})
	if err != nil {
		return err
	}
	s.activity.Record(ctx, sess.UserID(), "Deleted grade %s", grade)
	return nil
}

// change applies a single-band edit. The result must be well formed, and a
// scale covering all of 0..100 must stay covering; a scale still being
// built up may have gaps.
func (s *gradingService) change(ctx context.Context, edit func(entity.GradeScale) (entity.GradeScale, error)) error {
	return s.repo.Modify(ctx, func(current entity.GradeScale) (entity.GradeScale, error) {
		next, err := edit(current)
		if err != nil {
			return nil, err
		}
		if err := next.Validate(); err != nil {
			return nil, invalid(err)
		}
		if current.Complete() && !next.Complete() {
			gap := next.Gaps()[0]
			return nil, invalid(fmt.Errorf("change would leave marks %d-%d without a grade; replace the whole scale instead", gap.From, gap.To))
		}
		return next, nil
	})
}

func invalid(err error) error {
	return apperror.New(http.StatusBadRequest, err.Error(), errors.Join(apperror.ErrInvalidInput, err))
}
