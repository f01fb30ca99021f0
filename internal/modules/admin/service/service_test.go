package service

import (
	"context"
	"errors"
	"testing"

	"anoa.com/academicrecords/internal/entity"
	activityRepo "anoa.com/academicrecords/internal/modules/activity/repository"
	activity "anoa.com/academicrecords/internal/modules/activity/service"
	"anoa.com/academicrecords/internal/modules/admin/dto"
	enrollmentRepo "anoa.com/academicrecords/internal/modules/enrollment/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	resultRepo "anoa.com/academicrecords/internal/modules/result/repository"
	search "anoa.com/academicrecords/internal/modules/search/service"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	auth "anoa.com/academicrecords/internal/modules/user/service"
	"anoa.com/academicrecords/internal/session"
	"anoa.com/academicrecords/pkg/apperror"
	"anoa.com/academicrecords/pkg/flatfile"
)

var adminSession = &session.Session{User: entity.User{ID: "AD00001", Role: entity.RoleAdmin}}

type fixture struct {
	svc     AdminService
	users   userRepo.UserRepository
	modules moduleRepo.ModuleRepository
	results resultRepo.ResultRepository
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := flatfile.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	f := fixture{
		users:   userRepo.NewUserRepository(store),
		modules: moduleRepo.NewModuleRepository(store),
		results: resultRepo.NewResultRepository(store),
	}
	f.svc = NewAdminService(
		f.users,
		f.modules,
		f.results,
		enrollmentRepo.NewEnrollmentRepository(store),
		search.NewLocalSearchService(),
		activity.NewActivityService(activityRepo.NewActivityRepository(store), nil),
	)
	return f
}

func strPtr(s string) *string { return &s }

func TestCreateUserAssignsSequentialIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "Student", FullName: "Student 1", DOB: "01/01/2000"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.User.ID != "TP30001" {
		t.Fatalf("expected TP30001, got %s", first.User.ID)
	}
	if first.DefaultPassword != "TP3000101012000" {
		t.Fatalf("unexpected default password %s", first.DefaultPassword)
	}

	second, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "Student", FullName: "Student 2", DOB: "01/01/2000"})
	if err != nil {
		t.Fatal(err)
	}
	if second.User.ID != "TP30002" {
		t.Fatalf("expected TP30002, got %s", second.User.ID)
	}

	stored, err := f.users.FindByID(ctx, "TP30001")
	if err != nil {
		t.Fatal(err)
	}
	if ok, legacy := auth.CheckPassword(stored.PasswordHash, "TP3000101012000"); !ok || legacy {
		t.Fatal("default password was not stored as a bcrypt hash")
	}
}

func TestCreateLecturerNeedsLeaderSupervisor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "AcademicLeader", FullName: "Alice", DOB: "01/01/1985"})
	if err != nil {
		t.Fatal(err)
	}
	student, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "Student", FullName: "Sam", DOB: "01/01/2000"})
	if err != nil {
		t.Fatal(err)
	}

	cases := []*string{nil, strPtr("AL19999"), strPtr(student.User.ID)}
	for _, sup := range cases {
		_, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "Lecturer", FullName: "Lee", DOB: "01/01/1980", SupervisorID: sup})
		if !errors.Is(err, apperror.ErrInvalidInput) {
			t.Fatalf("expected invalid supervisor %v to be rejected, got %v", sup, err)
		}
	}

	lec, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "Lecturer", FullName: "Lee", DOB: "01/01/1980", SupervisorID: &leader.User.ID})
	if err != nil {
		t.Fatalf("create lecturer: %v", err)
	}
	if lec.User.ID != "LC20001" || lec.User.SupervisorID == nil || *lec.User.SupervisorID != "AL10001" {
		t.Fatalf("unexpected lecturer %+v", lec.User)
	}
}

func TestDeleteUserRefusesReferencedRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	leader, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "AcademicLeader", FullName: "Alice", DOB: "01/01/1985"})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.modules.Create(ctx, &entity.Module{Code: "MOD001", Name: "Programming", LeaderID: leader.User.ID}); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.DeleteUser(ctx, adminSession, leader.User.ID); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := f.modules.Delete(ctx, "MOD001"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.DeleteUser(ctx, adminSession, leader.User.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.users.FindByID(ctx, leader.User.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
}

func TestDeleteUserRefusesSelf(t *testing.T) {
	f := newFixture(t)
	if err := f.svc.DeleteUser(context.Background(), adminSession, "AD00001"); !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateUser(ctx, adminSession, dto.CreateUserInput{Role: "Student", FullName: "Sam", DOB: "01/01/2000"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.UpdateUser(ctx, adminSession, created.User.ID, dto.UpdateUserInput{SupervisorID: strPtr("AL10001")}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("students cannot get a supervisor, got %v", err)
	}

	updated, err := f.svc.UpdateUser(ctx, adminSession, created.User.ID, dto.UpdateUserInput{FullName: strPtr("Samuel"), Phone: strPtr("0123")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != "Samuel" || updated.Phone != "0123" || updated.DOB != "01/01/2000" {
		t.Fatalf("unexpected user %+v", updated)
	}
}

func TestGetAllUsersAndLocalSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []dto.CreateUserInput{
		{Role: "Student", FullName: "Ada Lovelace", DOB: "01/01/2000"},
		{Role: "Student", FullName: "Alan Turing", DOB: "01/01/2000"},
		{Role: "AcademicLeader", FullName: "Grace Hopper", DOB: "01/01/1985"},
	} {
		if _, err := f.svc.CreateUser(ctx, adminSession, in); err != nil {
			t.Fatal(err)
		}
	}

	page, err := f.svc.GetAllUsers(ctx, dto.UserFilter{Role: "Student"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Meta.TotalItems != 2 {
		t.Fatalf("expected 2 students, got %d", page.Meta.TotalItems)
	}
	for _, u := range page.Data {
		if u.PasswordHash != "" {
			t.Fatal("password hash leaked in listing")
		}
	}

	hits, err := f.svc.SearchUsers(ctx, dto.SearchQuery{Q: "turing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].ID != "TP30002" {
		t.Fatalf("unexpected hits %+v", hits)
	}
}
