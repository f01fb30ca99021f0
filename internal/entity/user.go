package entity

import (
	"fmt"
	"strings"

	"anoa.com/academicrecords/pkg/flatfile"
)

type Role string

const (
	RoleAdmin          Role = "Admin"
	RoleAcademicLeader Role = "AcademicLeader"
	RoleLecturer       Role = "Lecturer"
	RoleStudent        Role = "Student"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleAcademicLeader, RoleLecturer, RoleStudent}

// ParseRole accepts the stored role names plus the "Leader" alias written by
// older data files.
func ParseRole(s string) (Role, error) {
	switch strings.TrimSpace(s) {
	case "Admin":
		return RoleAdmin, nil
	case "AcademicLeader", "Leader":
		return RoleAcademicLeader, nil
	case "Lecturer":
		return RoleLecturer, nil
	case "Student":
		return RoleStudent, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IDPrefix returns the user id prefix and first sequence number of the role.
func (r Role) IDPrefix() (string, int) {
	switch r {
	case RoleAcademicLeader:
		return "AL", 10001
	case RoleLecturer:
		return "LC", 20001
	case RoleStudent:
		return "TP", 30001
	default:
		return "AD", 1
	}
}

const userFields = 9

// User is one row of the user table. SupervisorID is only meaningful for
// lecturers and references an academic leader.
type User struct {
	ID           string  `json:"id" validate:"required"`
	PasswordHash string  `json:"-"`
	Role         Role    `json:"role" validate:"required,oneof=Admin AcademicLeader Lecturer Student"`
	FullName     string  `json:"full_name" validate:"required,max=100"`
	Gender       string  `json:"gender" validate:"omitempty,oneof=Male Female"`
	Email        string  `json:"email" validate:"omitempty,email"`
	Phone        string  `json:"phone"`
	Age          string  `json:"age" validate:"omitempty,numeric"`
	DOB          string  `json:"dob"`
	SupervisorID *string `json:"supervisor_id,omitempty"`
}

func (u *User) Record() []string {
	supervisor := None
	if u.Role == RoleLecturer {
		supervisor = orNone(u.SupervisorID)
	}
	return []string{
		u.ID,
		u.PasswordHash,
		string(u.Role),
		u.FullName,
		u.Gender,
		u.Email,
		u.Phone,
		u.Age,
		orDash(u.DOB),
		supervisor,
	}
}

func UserFromRecord(r flatfile.Record) (*User, error) {
	if err := requireFields("user", r, userFields); err != nil {
		return nil, err
	}
	role, err := ParseRole(r.Field(2))
	if err != nil {
		return nil, malformed("user", r, err.Error())
	}
	u := &User{
		ID:           r.Field(0),
		PasswordHash: r.Field(1),
		Role:         role,
		FullName:     r.Field(3),
		Gender:       r.Field(4),
		Email:        r.Field(5),
		Phone:        r.Field(6),
		Age:          r.Field(7),
		DOB:          fromDash(r.Field(8)),
	}
	if role == RoleLecturer {
		u.SupervisorID = optional(r.Field(9))
	}
	return u, nil
}

// DefaultPassword is the initial password issued to a new account: the user
// id followed by the digits of the date of birth.
func DefaultPassword(id, dob string) string {
	var b strings.Builder
	b.WriteString(id)
	for _, c := range dob {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return None
	}
	return s
}

func fromDash(s string) string {
	if s == None {
		return ""
	}
	return s
}
