package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"anoa.com/academicrecords/internal/entity"
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
	commonDto "anoa.com/academicrecords/pkg/dto"
	"anoa.com/academicrecords/pkg/validator"
)

const defaultSearchLimit = 20

type AdminService interface {
	CreateUser(ctx context.Context, sess *session.Session, input dto.CreateUserInput) (*dto.CreateUserResponse, error)
	GetAllUsers(ctx context.Context, filter dto.UserFilter) (*commonDto.Paginated[*entity.User], error)
	GetUser(ctx context.Context, id string) (*entity.User, error)
	SearchUsers(ctx context.Context, query dto.SearchQuery) ([]search.UserDoc, error)
	UpdateUser(ctx context.Context, sess *session.Session, id string, input dto.UpdateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, sess *session.Session, id string) error
}

type adminService struct {
	users       userRepo.UserRepository
	modules     moduleRepo.ModuleRepository
	results     resultRepo.ResultRepository
	enrollments enrollmentRepo.EnrollmentRepository
	search      search.SearchService
	activity    activity.ActivityService
}

func NewAdminService(
	users userRepo.UserRepository,
	modules moduleRepo.ModuleRepository,
	results resultRepo.ResultRepository,
	enrollments enrollmentRepo.EnrollmentRepository,
	searchSvc search.SearchService,
	activity activity.ActivityService,
) AdminService {
	return &adminService{
		users:       users,
		modules:     modules,
		results:     results,
		enrollments: enrollments,
		search:      searchSvc,
		activity:    activity,
	}
}

func (s *adminService) CreateUser(ctx context.Context, sess *session.Session, input dto.CreateUserInput) (*dto.CreateUserResponse, error) {
	role, err := entity.ParseRole(input.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", err.Error(), apperror.ErrInvalidInput)
	}

	user := &entity.User{
		Role:     role,
		FullName: strings.TrimSpace(input.FullName),
		Gender:   input.Gender,
		Email:    strings.TrimSpace(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
		Age:      input.Age,
		DOB:      strings.TrimSpace(input.DOB),
	}
	if role == entity.RoleLecturer {
		if err := s.checkSupervisor(ctx, input.SupervisorID); err != nil {
			return nil, err
		}
		supervisor := strings.TrimSpace(*input.SupervisorID)
		user.SupervisorID = &supervisor
	}

	var password string
	err = s.users.CreateNext(ctx, user, func(u *entity.User) error {
		password = entity.DefaultPassword(u.ID, u.DOB)
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		u.PasswordHash = hash
		return validator.Struct(u)
	})
	if err != nil {
		return nil, err
	}

	s.index(user)
	s.activity.Record(ctx, sess.UserID(), "Created %s account %s", user.Role, user.ID)

	user.PasswordHash = ""
	return &dto.CreateUserResponse{User: user, DefaultPassword: password}, nil
}

func (s *adminService) GetAllUsers(ctx context.Context, filter dto.UserFilter) (*commonDto.Paginated[*entity.User], error) {
	var (
		users []*entity.User
		err   error
	)
	if filter.Role != "" {
		role, perr := entity.ParseRole(filter.Role)
		if perr != nil {
			return nil, fmt.Errorf("%s: %w", perr.Error(), apperror.ErrInvalidInput)
		}
		users, err = s.users.FindByRole(ctx, role)
	} else {
		users, err = s.users.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	matched := make([]*entity.User, 0, len(users))
	for _, u := range users {
		if filter.Search != "" && !search.MatchUser(u, filter.Search) {
			continue
		}
		u.PasswordHash = ""
		matched = append(matched, u)
	}

	page := commonDto.Paginate(matched, filter.Page, filter.Limit)
	return &page, nil
}

func (s *adminService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// SearchUsers queries the search engine, or scans the user table when none
// is configured.
func (s *adminService) SearchUsers(ctx context.Context, query dto.SearchQuery) ([]search.UserDoc, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	var role entity.Role
	if query.Role != "" {
		r, err := entity.ParseRole(query.Role)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", err.Error(), apperror.ErrInvalidInput)
		}
		role = r
	}

	if s.search.Enabled() {
		hits, err := s.search.SearchUsers(ctx, query.Q, role, limit)
		if err == nil {
			return hits, nil
		}
		log.Printf("Search engine query failed, scanning users instead: %v", err)
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	hits := make([]search.UserDoc, 0)
	for _, u := range users {
		if len(hits) >= limit {
			break
		}
		if role != "" && u.Role != role {
			continue
		}
		if search.MatchUser(u, query.Q) {
			hits = append(hits, search.NewUserDoc(u))
		}
	}
	return hits, nil
}

func (s *adminService) UpdateUser(ctx context.Context, sess *session.Session, id string, input dto.UpdateUserInput) (*entity.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set(&user.FullName, input.FullName)
	set(&user.Gender, input.Gender)
	set(&user.Email, input.Email)
	set(&user.Phone, input.Phone)
	set(&user.Age, input.Age)
	set(&user.DOB, input.DOB)

	if input.SupervisorID != nil {
		if user.Role != entity.RoleLecturer {
			return nil, fmt.Errorf("only lecturers have a supervisor: %w", apperror.ErrInvalidInput)
		}
		if err := s.checkSupervisor(ctx, input.SupervisorID); err != nil {
			return nil, err
		}
		supervisor := strings.TrimSpace(*input.SupervisorID)
		user.SupervisorID = &supervisor
	}

	if input.ResetPassword {
		user.PasswordHash, err = auth.HashPassword(entity.DefaultPassword(user.ID, user.DOB))
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := validator.Struct(user); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.index(user)
	s.activity.Record(ctx, sess.UserID(), "Updated account %s", user.ID)

	user.PasswordHash = ""
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, sess *session.Session, id string) error {
	if id == sess.UserID() {
		return fmt.Errorf("cannot delete your own account: %w", apperror.ErrConflict)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkUnreferenced(ctx, user); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.search.DeleteUser(id); err != nil {
		log.Printf("Failed to remove user %s from search index: %v", id, err)
	}
	s.activity.Record(ctx, sess.UserID(), "Deleted %s account %s", user.Role, user.ID)
	return nil
}

func (s *adminService) checkSupervisor(ctx context.Context, supervisorID *string) error {
	if supervisorID == nil || strings.TrimSpace(*supervisorID) == "" {
		return fmt.Errorf("lecturers need an academic leader as supervisor: %w", apperror.ErrInvalidInput)
	}
	leader, err := s.users.FindByID(ctx, strings.TrimSpace(*supervisorID))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return fmt.Errorf("supervisor %s does not exist: %w", *supervisorID, apperror.ErrInvalidInput)
		}
		return err
	}
	if leader.Role != entity.RoleAcademicLeader {
		return fmt.Errorf("supervisor %s is not an academic leader: %w", leader.ID, apperror.ErrInvalidInput)
	}
	return nil
}

// checkUnreferenced refuses deleting users other records still point at.
func (s *adminService) checkUnreferenced(ctx context.Context, user *entity.User) error {
	switch user.Role {
	case entity.RoleAcademicLeader:
		led, err := s.modules.FindByLeader(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(led) > 0 {
			return fmt.Errorf("%s still leads %d module(s): %w", user.ID, len(led), apperror.ErrConflict)
		}
		supervised, err := s.users.FindBySupervisor(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(supervised) > 0 {
			return fmt.Errorf("%s still supervises %d lecturer(s): %w", user.ID, len(supervised), apperror.ErrConflict)
		}
	case entity.RoleLecturer:
		taught, err := s.modules.FindByLecturer(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(taught) > 0 {
			return fmt.Errorf("%s is still assigned to %d module(s): %w", user.ID, len(taught), apperror.ErrConflict)
		}
	case entity.RoleStudent:
		results, err := s.results.FindByStudent(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(results) > 0 {
			return fmt.Errorf("%s still has %d result(s): %w", user.ID, len(results), apperror.ErrConflict)
		}
		enrolled, err := s.enrollments.FindByStudent(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(enrolled) > 0 {
			return fmt.Errorf("%s is still enrolled in %d class(es): %w", user.ID, len(enrolled), apperror.ErrConflict)
		}
	}
	return nil
}

func (s *adminService) index(user *entity.User) {
	if err := s.search.IndexUsers(user); err != nil {
		log.Printf("Failed to index user %s: %v", user.ID, err)
	}
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
