package dto

type RecordResultInput struct {
	AssessmentID string `json:"assessment_id" binding:"required"`
	StudentID    string `json:"student_id" binding:"required"`
	Marks        *int   `json:"marks" binding:"required,min=0"`
	Feedback     string `json:"feedback" binding:"max=500"`
}

type RecordResultResponse struct {
	Result  *ResultView `json:"result"`
	Created bool        `json:"created"`
}

// ResultView is a result joined with its assessment and graded against the
// current scale.
type ResultView struct {
	ID              string `json:"id"`
	AssessmentID    string `json:"assessment_id"`
	AssessmentTitle string `json:"assessment_title"`
	AssessmentType  string `json:"assessment_type"`
	ModuleCode      string `json:"module_code"`
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name,omitempty"`
	Marks           int    `json:"marks"`
	MaxMarks        int    `json:"max_marks"`
	Grade           string `json:"grade"`
	Feedback        string `json:"feedback"`
}

const (
	StatusGraded  = "Graded"
	StatusPending = "Pending"
)

// RosterEntry is one student of an assessment's module with their result,
// if any. Marks, Grade and Feedback are empty while Pending.
type RosterEntry struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Status      string `json:"status"`
	ResultID    string `json:"result_id,omitempty"`
	Marks       *int   `json:"marks"`
	MaxMarks    int    `json:"max_marks"`
	Grade       string `json:"grade,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
}
