package session

import "github.com/pkg/errors"

// Role is the closed set of account types. Raw server values are resolved to a
// Role exactly once, at the session boundary (see ParseRole); downstream code
// only ever compares Role values.
type Role string

const (
	RoleStudent      Role = "student"
	RoleTutor        Role = "tutor"
	RoleAdmin        Role = "admin"
	RoleBursaryAdmin Role = "bursary_admin"
)

var (
	AllRoles = []Role{RoleStudent, RoleTutor, RoleAdmin, RoleBursaryAdmin}

	ErrUnknownRole = errors.New("unknown role")

	// rawRoles maps every raw value the backend is known to emit to its
	// canonical Role. "user" and "student" are the same account type.
	rawRoles = map[string]Role{
		"user":          RoleStudent,
		"student":       RoleStudent,
		"tutor":         RoleTutor,
		"admin":         RoleAdmin,
		"bursary_admin": RoleBursaryAdmin,
	}

	roleNames = map[Role]string{
		RoleStudent:      "Student",
		RoleTutor:        "Tutor",
		RoleAdmin:        "Admin",
		RoleBursaryAdmin: "Bursary Admin",
	}
)

// ParseRole resolves a raw backend value to its canonical Role.
func ParseRole(raw string) (Role, error) {
	if role, ok := rawRoles[raw]; ok {
		return role, nil
	}
	return "", errors.Wrap(ErrUnknownRole, raw)
}

func (r Role) Name() string { return roleNames[r] }

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) In(roles []Role) bool {
	for _, role := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// DashboardPath is where a fresh login with this role lands.
func (r Role) DashboardPath() string {
	switch r {
	case RoleTutor:
		return "/dashboard/tutor"
	case RoleAdmin:
		return "/dashboard/admin"
	case RoleBursaryAdmin:
		return "/dashboard/bursary"
	default:
		return "/dashboard/student"
	}
}
