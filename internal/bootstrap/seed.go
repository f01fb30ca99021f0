package bootstrap

import (
	"context"
	"fmt"
	"log"

	"anoa.com/academicrecords/internal/entity"
	classRepo "anoa.com/academicrecords/internal/modules/class/repository"
	gradingRepo "anoa.com/academicrecords/internal/modules/grading/repository"
	moduleRepo "anoa.com/academicrecords/internal/modules/module/repository"
	userRepo "anoa.com/academicrecords/internal/modules/user/repository"
	"golang.org/x/crypto/bcrypt"
)

type Repositories struct {
	Users   userRepo.UserRepository
	Modules moduleRepo.ModuleRepository
	Classes classRepo.ClassRepository
	Grading gradingRepo.GradingRepository
}

var moduleNames = []string{
	"Programming Fundamentals",
	"Data Structures",
	"Database Systems",
	"Web Development",
	"Software Engineering",
	"Operating Systems",
	"Computer Networks",
	"Artificial Intelligence",
	"Mobile Development",
}

var defaultScale = entity.GradeScale{
	{Grade: "A+", MinMarks: 80, MaxMarks: 100},
	{Grade: "A", MinMarks: 75, MaxMarks: 79},
	{Grade: "A-", MinMarks: 70, MaxMarks: 74},
	{Grade: "B+", MinMarks: 65, MaxMarks: 69},
	{Grade: "B", MinMarks: 60, MaxMarks: 64},
	{Grade: "B-", MinMarks: 55, MaxMarks: 59},
	{Grade: "C+", MinMarks: 50, MaxMarks: 54},
	{Grade: "C", MinMarks: 45, MaxMarks: 49},
	{Grade: "F", MinMarks: 0, MaxMarks: 44},
}

// SeedIfEmpty loads the demo institution when the user table is empty.
// Every account gets its default password.
func SeedIfEmpty(ctx context.Context, repos Repositories) error {
	count, err := repos.Users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Users already exist, skipping seed")
		return nil
	}

	users := seedUsers()
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(entity.DefaultPassword(u.ID, u.DOB)), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.PasswordHash = string(hash)
		if err := repos.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	if err := seedModules(ctx, repos.Modules); err != nil {
		return err
	}
	if err := seedClasses(ctx, repos.Classes); err != nil {
		return err
	}
	if err := SeedGradeScale(ctx, repos.Grading); err != nil {
		return err
	}

	log.Printf("Seeded %d users, %d modules and the default grade scale", len(users), len(moduleNames))
	log.Println("   Admin: AD00001 / AD0000101011990")
	return nil
}

// SeedGradeScale writes the default bands when the grading table is empty.
func SeedGradeScale(ctx context.Context, repo gradingRepo.GradingRepository) error {
	scale, err := repo.Scale(ctx)
	if err != nil {
		return err
	}
	if len(scale) > 0 {
		return nil
	}
	for i := range defaultScale {
		band := defaultScale[i]
		if err := repo.Create(ctx, &band); err != nil {
			return fmt.Errorf("seed grade %s: %w", band.Grade, err)
		}
	}
	return nil
}

func seedUsers() []*entity.User {
	users := []*entity.User{
		{ID: "AD00001", Role: entity.RoleAdmin, FullName: "John Admin", Gender: "Male", Email: "admin@afs.edu", Phone: "0123456789", Age: "34", DOB: "01/01/1990"},
		{ID: "AL10001", Role: entity.RoleAcademicLeader, FullName: "Alice Leader", Gender: "Female", Email: "alice@afs.edu", Phone: "0123456780", Age: "39", DOB: "01/01/1985"},
		{ID: "AL10002", Role: entity.RoleAcademicLeader, FullName: "Bob Leader", Gender: "Male", Email: "bob@afs.edu", Phone: "0123456781", Age: "38", DOB: "01/01/1986"},
		{ID: "AL10003", Role: entity.RoleAcademicLeader, FullName: "Carol Leader", Gender: "Female", Email: "carol@afs.edu", Phone: "0123456782", Age: "37", DOB: "01/01/1987"},
	}

	for i := 1; i <= 9; i++ {
		supervisor := leaderFor(i)
		users = append(users, &entity.User{
			ID:           fmt.Sprintf("LC2%04d", i),
			Role:         entity.RoleLecturer,
			FullName:     fmt.Sprintf("Lecturer %d", i),
			Gender:       "Male",
			Email:        fmt.Sprintf("lec%d@afs.edu", i),
			Phone:        fmt.Sprintf("012345678%d", i),
			Age:          "44",
			DOB:          "01/01/1980",
			SupervisorID: &supervisor,
		})
	}

	for i := 1; i <= 15; i++ {
		gender := "Male"
		if i%2 == 0 {
			gender = "Female"
		}
		users = append(users, &entity.User{
			ID:       fmt.Sprintf("TP3%04d", i),
			Role:     entity.RoleStudent,
			FullName: fmt.Sprintf("Student %d", i),
			Gender:   gender,
			Email:    fmt.Sprintf("student%d@student.afs.edu", i),
			Phone:    fmt.Sprintf("011234567%02d", i),
			Age:      "24",
			DOB:      "01/01/2000",
		})
	}
	return users
}

func seedModules(ctx context.Context, repo moduleRepo.ModuleRepository) error {
	for i, name := range moduleNames {
		n := i + 1
		lecturer := fmt.Sprintf("LC2%04d", n)
		module := &entity.Module{
			Code:       fmt.Sprintf("MOD%03d", n),
			Name:       name,
			LeaderID:   leaderFor(n),
			LecturerID: &lecturer,
		}
		if err := repo.Create(ctx, module); err != nil {
			return fmt.Errorf("seed module %s: %w", module.Code, err)
		}
	}
	return nil
}

func seedClasses(ctx context.Context, repo classRepo.ClassRepository) error {
	classes := []*entity.Class{
		{ID: "CLS001", ModuleCode: "MOD001", Intake: "Computer Science Year 1"},
		{ID: "CLS002", ModuleCode: "MOD002", Intake: "Computer Science Year 2"},
		{ID: "CLS003", ModuleCode: "MOD003", Intake: "Computer Science Year 3"},
	}
	for _, c := range classes {
		if err := repo.Create(ctx, c); err != nil {
			return fmt.Errorf("seed class %s: %w", c.ID, err)
		}
	}
	return nil
}

// leaderFor groups lecturers and modules three to a leader.
func leaderFor(n int) string {
	return fmt.Sprintf("AL1%04d", (n-1)/3+1)
}
