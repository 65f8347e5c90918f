package user

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
)

// Roles
const (
	RoleAdmin   Role = "ADMIN"
	RoleTrainer Role = "TRAINER"
	RoleStudent Role = "STUDENT"
)

var (
	AllRoles = []Role{RoleAdmin, RoleTrainer, RoleStudent}

	ErrInvalidRole = errors.New("invalid role")
)

type Role string

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleStudent:
		return true
	default:
		return false
	}
}

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(core.CleanString(s)))
	if !r.IsValid() {
		return "", errors.Wrapf(ErrInvalidRole, "%q", s)
	}
	return r, nil
}

type ID string

type User struct {
	ID                ID     `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              Role   `json:"role"`
	Avatar            string `json:"avatar,omitempty"`
	CourseOrExpertise string `json:"courseOrExpertise,omitempty"` // course for students, expertise for trainers
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTrainer() bool { return u.Role == RoleTrainer }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// AvatarURL returns a generated initials avatar for name.
func AvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random"
}

// NewTrainer contains information needed to add a trainer from the admin dashboard.
type NewTrainer struct {
	Name           string `json:"name" validate:"notblank"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience" validate:"gte=0"`
}

func (nt *NewTrainer) clean() {
	nt.Name = core.CleanString(nt.Name)
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.Specialization = core.CleanString(nt.Specialization)
}

// LoginRequest is what the login page submits. Role is only used for unknown emails.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  Role   `json:"role"`
}

type QueryFilter struct {
	Role   Role   `query:"role"`
	Search string `query:"search"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Role == "" && qf.Search == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Role = Role(strings.ToUpper(string(qf.Role)))
}

// NameNotFoundError is returned by name lookups that match nobody.
// Suggestions holds the closest known names, best match first.
type NameNotFoundError struct {
	Name        string
	Suggestions []string
}

func (e *NameNotFoundError) Error() string {
	msg := "no user named " + strings.TrimSpace(e.Name)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean: " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

func (e *NameNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
