package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"anoa.com/academicrecords/internal/entity"
	activityRepo "anoa.com/academicrecords/internal/modules/activity/repository"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	assessmentRepo "anoa.com/academicrecords/internal/modules/assessment/repository"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	enrollmentRepo "anoa.com/academicrecords/internal/modules/enrollment/repository"
	gradingRepo "anoa.com/academicrecords/internal/modules/grading/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	"anoa.com/academicrecords/internal/modules/result/dto"
	"anoa.com/academicrecords/internal/modules/result/repository"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
)

var (
	lecturer = &session.Session{User: entity.User{ID: "LC20001", Role: entity.RoleLecturer}}
	student  = &session.Session{User: entity.User{ID: "TP30001", Role: entity.RoleStudent}}
)

func newService(t *testing.T) (ResultService, repository.ResultRepository) {
	t.Helper()
	store, err := flatfile.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	users := userRepo.NewUserRepository(store)
	sup := "AL10001"
	for _, u := range []*entity.User{
		{ID: "LC20001", PasswordHash: "x", Role: entity.RoleLecturer, FullName: "Lecturer 1", SupervisorID: &sup},
		{ID: "TP30001", PasswordHash: "x", Role: entity.RoleStudent, FullName: "Student 1"},
		{ID: "TP30002", PasswordHash: "x", Role: entity.RoleStudent, FullName: "Student 2"},
		{ID: "TP30003", PasswordHash: "x", Role: entity.RoleStudent, FullName: "Student 3"},
	} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}

	modules := moduleRepo.NewModuleRepository(store)
	lc := "LC20001"
	if err := modules.Create(ctx, &entity.Module{Code: "MOD001", Name: "Programming", LeaderID: "AL10001", LecturerID: &lc}); err != nil {
		t.Fatal(err)
	}
	classes := classRepo.NewClassRepository(store)
	enrollments := enrollmentRepo.NewEnrollmentRepository(store)
	for _, c := range []*entity.Class{
		{ID: "CLS001", ModuleCode: "MOD001", Intake: "Year 1"},
		{ID: "CLS002", ModuleCode: "MOD002", Intake: "Year 1"},
	} {
		if err := classes.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []*entity.Enrollment{
		{ID: "ENR-1", StudentID: "TP30002", ClassID: "CLS001"},
		{ID: "ENR-2", StudentID: "TP30001", ClassID: "CLS001"},
		{ID: "ENR-3", StudentID: "TP30003", ClassID: "CLS002"},
	} {
		if err := enrollments.Create(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	assessments := assessmentRepo.NewAssessmentRepository(store)
	if err := assessments.Create(ctx, &entity.Assessment{ID: "ASS001", ModuleCode: "MOD001", Type: "Exam", Title: "Final", MaxMarks: 80}); err != nil {
		t.Fatal(err)
	}
	grading := gradingRepo.NewGradingRepository(store)
	for _, b := range []*entity.GradeBand{
		{Grade: "A", MinMarks: 70, MaxMarks: 100},
		{Grade: "B", MinMarks: 50, MaxMarks: 69},
		{Grade: "F", MinMarks: 0, MaxMarks: 49},
	} {
		if err := grading.Create(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	results := repository.NewResultRepository(store)
	svc := NewResultService(
		results,
		assessments,
		modules,
		users,
		classes,
		enrollments,
		grading,
		activity.NewActivityService(activityRepo.NewActivityRepository(store), nil),
	)
	return svc, results
}

func intPtr(i int) *int { return &i }

func TestRecordUpsertsPerAssessmentAndStudent(t *testing.T) {
	svc, results := newService(t)
	ctx := context.Background()

	first, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30001", Marks: intPtr(55), Feedback: "Good"})
	if err != nil {
		t.Fatal(err)
	}
	if !first.Created || first.Result.ID != "RES00001" || first.Result.Grade != "B" {
		t.Fatalf("unexpected first result %+v", first.Result)
	}

	second, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30001", Marks: intPtr(75), Feedback: "Better"})
	if err != nil {
		t.Fatal(err)
	}
	if second.Created || second.Result.ID != "RES00001" || second.Result.Grade != "A" {
		t.Fatalf("unexpected second result %+v", second.Result)
	}

	count, err := results.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected one stored result, got %d", count)
	}
}

func TestRecordRejectsInvalidMarks(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, marks := range []int{-1, 81} {
		_, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30001", Marks: intPtr(marks)})
		if !errors.Is(err, apperror.ErrInvalidInput) {
			t.Fatalf("marks %d: expected invalid input, got %v", marks, err)
		}
	}

	if _, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "LC20001", Marks: intPtr(10)}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected non-student to be rejected, got %v", err)
	}

	other := &session.Session{User: entity.User{ID: "LC20002", Role: entity.RoleLecturer}}
	if _, err := svc.Record(ctx, other, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30001", Marks: intPtr(10)}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestStudentListsOwnResults(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30001", Marks: intPtr(40)}); err != nil {
		t.Fatal(err)
	}

	mine, err := svc.ListMine(ctx, student)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 result, got %d", len(mine))
	}
	got := mine[0]
	if got.AssessmentTitle != "Final" || got.ModuleCode != "MOD001" || got.Grade != "F" || got.MaxMarks != 80 {
		t.Fatalf("unexpected view %+v", got)
	}

	byAssessment, err := svc.ListByAssessment(ctx, lecturer, "ASS001")
	if err != nil {
		t.Fatal(err)
	}
	if len(byAssessment) != 1 || byAssessment[0].StudentName != "Student 1" {
		t.Fatalf("unexpected listing %+v", byAssessment)
	}
}

func TestConcurrentRecordsKeepOneRowPerStudent(t *testing.T) {
	svc, results := newService(t)
	ctx := context.Background()

	const writers = 8
	start := make(chan struct{})
	created := make(chan bool, writers)
	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(marks int) {
			defer wg.Done()
			<-start
			res, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30001", Marks: intPtr(marks)})
			if err != nil {
				errs <- err
				return
			}
			created <- res.Created
		}(50 + i)
	}
	close(start)
	wg.Wait()
	close(created)
	close(errs)

	for err := range errs {
		t.Fatalf("record: %v", err)
	}
	creations := 0
	for c := range created {
		if c {
			creations++
		}
	}
	if creations != 1 {
		t.Fatalf("expected exactly one creating write, got %d", creations)
	}

	rows, err := results.FindByAssessment(ctx, "ASS001")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 result row for the pair, got %d", len(rows))
	}
	if rows[0].ID != "RES00001" {
		t.Fatalf("expected the first id to be kept, got %s", rows[0].ID)
	}
}

func TestRosterListsGradedAndPendingStudents(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30002", Marks: intPtr(72), Feedback: "Solid"}); err != nil {
		t.Fatal(err)
	}

	roster, err := svc.Roster(ctx, lecturer, "ASS001")
	if err != nil {
		t.Fatal(err)
	}
	// TP30003 is enrolled in another module's class only.
	if len(roster) != 2 {
		t.Fatalf("expected 2 students, got %+v", roster)
	}

	pending := roster[0]
	if pending.StudentID != "TP30001" || pending.Status != dto.StatusPending || pending.Marks != nil || pending.Grade != "" {
		t.Fatalf("unexpected pending entry %+v", pending)
	}
	graded := roster[1]
	if graded.StudentID != "TP30002" || graded.Status != dto.StatusGraded || graded.Marks == nil || *graded.Marks != 72 {
		t.Fatalf("unexpected graded entry %+v", graded)
	}
	if graded.Grade != "A" || graded.Feedback != "Solid" || graded.StudentName != "Student 2" || graded.MaxMarks != 80 {
		t.Fatalf("unexpected graded details %+v", graded)
	}

	// A graded student outside the module's classes still appears.
	if _, err := svc.Record(ctx, lecturer, dto.RecordResultInput{AssessmentID: "ASS001", StudentID: "TP30003", Marks: intPtr(10)}); err != nil {
		t.Fatal(err)
	}
	roster, err = svc.Roster(ctx, lecturer, "ASS001")
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 3 || roster[2].StudentID != "TP30003" || roster[2].Status != dto.StatusGraded {
		t.Fatalf("expected graded outsider in roster, got %+v", roster)
	}

	other := &session.Session{User: entity.User{ID: "LC20002", Role: entity.RoleLecturer}}
	if _, err := svc.Roster(ctx, other, "ASS001"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := svc.Roster(ctx, lecturer, "ASS404"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
