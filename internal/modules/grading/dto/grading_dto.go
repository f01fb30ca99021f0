package dto

import "anoa.com/academicrecords/internal/entity"

type GradeBandRequest struct {
	Grade    string `json:"grade" binding:"required,max=5"`
	MinMarks *int   `json:"min_marks" binding:"required,min=0,max=100"`
	MaxMarks *int   `json:"max_marks" binding:"required,min=0,max=100"`
}

func (r GradeBandRequest) Band() entity.GradeBand {
	band := entity.GradeBand{Grade: r.Grade}
	if r.MinMarks != nil {
		band.MinMarks = *r.MinMarks
	}
	if r.MaxMarks != nil {
		band.MaxMarks = *r.MaxMarks
	}
	return band
}

type ReplaceScaleRequest struct {
	Bands []GradeBandRequest `json:"bands" binding:"required,min=1,dive"`
}

type GradingResponse struct {
	Bands []entity.GradeBand `json:"bands"`
	// Gaps lists the marks between 0 and 100 no band covers.
	Gaps []entity.MarkRange `json:"gaps"`
}
