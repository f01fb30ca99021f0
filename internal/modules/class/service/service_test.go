package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/academicrecords/internal/entity"
	activityRepo "anoa.com/academicrecords/internal/modules/activity/repository"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	"anoa.com/academicrecords/internal/modules/class/dto"
	"anoa.com/academicrecords/internal/modules/class/repository"
	enrollmentRepo "anoa.com/academicrecords/internal/modules/enrollment/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
)

var admin = &session.Session{User: entity.User{ID: "AD00001", Role: entity.RoleAdmin}}

func newService(t *testing.T) (ClassService, enrollmentRepo.EnrollmentRepository) {
	t.Helper()
	store, err := flatfile.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	modules := moduleRepo.NewModuleRepository(store)
	if err := modules.Create(context.Background(), &entity.Module{Code: "MOD001", Name: "Programming", LeaderID: "AL10001"}); err != nil {
		t.Fatal(err)
	}
	enrollments := enrollmentRepo.NewEnrollmentRepository(store)
	svc := NewClassService(
		repository.NewClassRepository(store),
		modules,
		enrollments,
		activity.NewActivityService(activityRepo.NewActivityRepository(store), nil),
	)
	return svc, enrollments
}

func TestCreateGeneratesIDs(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, admin, dto.CreateClassInput{ModuleCode: "MOD001", Intake: "Year 1"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(ctx, admin, dto.CreateClassInput{ModuleCode: "MOD001", Intake: "Year 2"})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != "CLS001" || second.ID != "CLS002" {
		t.Fatalf("unexpected ids %s, %s", first.ID, second.ID)
	}

	if _, err := svc.Create(ctx, admin, dto.CreateClassInput{ID: "CLS001", ModuleCode: "MOD001", Intake: "Again"}); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, err := svc.Create(ctx, admin, dto.CreateClassInput{ModuleCode: "MOD404", Intake: "Year 1"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected invalid module, got %v", err)
	}
}

func TestUpdateIntake(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, dto.CreateClassInput{ModuleCode: "MOD001", Intake: "Year 1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.UpdateIntake(ctx, admin, created.ID, dto.UpdateClassInput{Intake: "Year 1 (Sept)"}); err != nil {
		t.Fatal(err)
	}

	all, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Intake != "Year 1 (Sept)" {
		t.Fatalf("unexpected classes %+v", all)
	}

	if _, err := svc.UpdateIntake(ctx, admin, "CLS999", dto.UpdateClassInput{Intake: "x"}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRefusesEnrolledClass(t *testing.T) {
	svc, enrollments := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, dto.CreateClassInput{ModuleCode: "MOD001", Intake: "Year 1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := enrollments.Create(ctx, &entity.Enrollment{ID: "ENR-1", StudentID: "TP30001", ClassID: created.ID}); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, admin, created.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, admin, dto.CreateClassInput{ModuleCode: "MOD001", Intake: "Year 1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, admin, created.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, admin, created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
