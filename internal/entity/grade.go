package entity

import (
	"fmt"
	"sort"
	"strconv"

	"anoa.com/academicrecords/pkg/flatfile"
)

// NoGrade is the label of a mark no band contains.
const NoGrade = "N/A"

const (
	MinMark = 0
	MaxMark = 100
)

// GradeBand maps the inclusive mark range [MinMarks, MaxMarks] to Grade.
type GradeBand struct {
	Grade    string `json:"grade" validate:"required,max=5"`
	MinMarks int    `json:"min_marks" validate:"gte=0,lte=100"`
	MaxMarks int    `json:"max_marks" validate:"gte=0,lte=100,gtefield=MinMarks"`
}

func (b *GradeBand) Record() []string {
	return []string{b.Grade, strconv.Itoa(b.MinMarks), strconv.Itoa(b.MaxMarks)}
}

func GradeBandFromRecord(r flatfile.Record) (*GradeBand, error) {
	if err := requireFields("grade band", r, 3); err != nil {
		return nil, err
	}
	minMarks, err := parseInt("grade band", r, 1, "min marks")
	if err != nil {
		return nil, err
	}
	maxMarks, err := parseInt("grade band", r, 2, "max marks")
	if err != nil {
		return nil, err
	}
	return &GradeBand{Grade: r.Field(0), MinMarks: minMarks, MaxMarks: maxMarks}, nil
}

func (b GradeBand) Contains(mark int) bool {
	return mark >= b.MinMarks && mark <= b.MaxMarks
}

func (b GradeBand) overlaps(o GradeBand) bool {
	return b.MinMarks <= o.MaxMarks && o.MinMarks <= b.MaxMarks
}

// GradeScale is the grading table in stored order.
type GradeScale []GradeBand

// GradeOf returns the grade of the first band containing mark, or NoGrade.
func (s GradeScale) GradeOf(mark int) string {
	for _, b := range s {
		if b.Contains(mark) {
			return b.Grade
		}
	}
	return NoGrade
}

// Validate checks that every band is well formed, labels are unique and no
// two bands overlap.
func (s GradeScale) Validate() error {
	seen := make(map[string]bool, len(s))
	for i, b := range s {
		if b.Grade == "" {
			return fmt.Errorf("grade band %d has no label", i+1)
		}
		if seen[b.Grade] {
			return fmt.Errorf("grade %s defined twice", b.Grade)
		}
		seen[b.Grade] = true
		if b.MinMarks < MinMark || b.MaxMarks > MaxMark {
			return fmt.Errorf("grade %s range %d-%d outside %d-%d", b.Grade, b.MinMarks, b.MaxMarks, MinMark, MaxMark)
		}
		if b.MinMarks > b.MaxMarks {
			return fmt.Errorf("grade %s min %d above max %d", b.Grade, b.MinMarks, b.MaxMarks)
		}
		for _, o := range s[:i] {
			if b.overlaps(o) {
				return fmt.Errorf("grade %s (%d-%d) overlaps grade %s (%d-%d)", b.Grade, b.MinMarks, b.MaxMarks, o.Grade, o.MinMarks, o.MaxMarks)
			}
		}
	}
	return nil
}

// Complete reports whether every mark in 0..100 falls in some band.
func (s GradeScale) Complete() bool {
	return len(s.Gaps()) == 0
}

// ValidateComplete is Validate plus coverage of every mark in 0..100.
func (s GradeScale) ValidateComplete() error {
	if err := s.Validate(); err != nil {
		return err
	}
	if gaps := s.Gaps(); len(gaps) > 0 {
		return fmt.Errorf("marks %d-%d are not covered by any grade", gaps[0].From, gaps[0].To)
	}
	return nil
}

// MarkRange is an inclusive range of marks.
type MarkRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Gaps returns the sub-ranges of 0..100 that no band covers.
func (s GradeScale) Gaps() []MarkRange {
	bands := make([]GradeBand, len(s))
	copy(bands, s)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinMarks < bands[j].MinMarks })

	gaps := []MarkRange{}
	next := MinMark
	for _, b := range bands {
		if b.MaxMarks < next {
			continue
		}
		if b.MinMarks > next {
			gaps = append(gaps, MarkRange{From: next, To: min(b.MinMarks-1, MaxMark)})
		}
		next = b.MaxMarks + 1
		if next > MaxMark {
			return gaps
		}
	}
	if next <= MaxMark {
		gaps = append(gaps, MarkRange{From: next, To: MaxMark})
	}
	return gaps
}
