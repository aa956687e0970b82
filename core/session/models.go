package session

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/walimu/walimu/core"
)

// UserProfile is the backend-owned account record cached on the session.
// It is a read-only DTO: consumers receive it through the session service and
// never mutate it in place; a refresh overwrites it wholesale.
type UserProfile struct {
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	Role        Role        `json:"role"`
	BursaryName null.String `json:"bursary_name,omitempty"`
	UniqueID    null.String `json:"unique_id,omitempty"`
	HasTutor    bool        `json:"has_tutor_profile,omitempty"`
	HasStudent  bool        `json:"has_student_profile,omitempty"`
}

// CanSwitchTo reports whether the account holds the other role's profile too.
func (p UserProfile) CanSwitchTo(target Role) bool {
	switch target {
	case RoleTutor:
		return p.Role == RoleStudent && p.HasTutor
	case RoleStudent:
		return p.Role == RoleTutor && p.HasStudent
	}
	return false
}

// Session is the client-held proof of authentication: the backend access token
// plus the cached profile. User is non-nil only while Token is non-empty; the
// two are always written together and cleared together.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
	SID   string       `json:"-"`
}

func (s Session) IsAuthenticated() bool { return s.Token != "" && s.User != nil }

func (s Session) MarshalProfile() ([]byte, error) { return json.Marshal(s.User) }

// AuthResult is what the backend returns from login/register.
type AuthResult struct {
	Token string
	User  UserProfile
}

// Backend is the slice of the marketplace API the session service needs.
type Backend interface {
	Login(ctx context.Context, email, password string, role Role) (AuthResult, error)
	Register(ctx context.Context, acc NewAccount) (AuthResult, error)
	Profile(ctx context.Context, token string) (UserProfile, error)
}

// Store is durable session storage. Each session owns two fixed entries, the
// access token and the serialized profile; absence of either means logged out.
type Store interface {
	// Save writes the token and profile entries together, replacing previous values.
	Save(ctx context.Context, sid string, sess Session) error
	// Get returns ErrNotFound when either entry is absent or expired.
	Get(ctx context.Context, sid string) (Session, error)
	// Delete removes both entries. Deleting an absent session is not an error.
	Delete(ctx context.Context, sid string) error
}

// Credentials is a login form.
type Credentials struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"omitempty,rawrole"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

// NewAccount contains information needed to register an account.
type NewAccount struct {
	FullName        string `json:"full_name" form:"full_name" validate:"required"`
	Email           string `json:"email" form:"email" validate:"required,email"`
	Role            string `json:"role" form:"role" validate:"required,rawrole"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
	BursaryName     string `json:"bursary_name" form:"bursary_name"`
	ReferralCode    string `json:"referral_code" form:"referral_code"`
}

func (na *NewAccount) Validate(validate *validator.Validate) error {
	na.FullName = core.CleanString(na.FullName)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.BursaryName = core.CleanString(na.BursaryName)
	na.ReferralCode = core.CleanString(na.ReferralCode)
	return validate.Struct(na)
}

// RoleSwitch is the step-up confirmation form for dual-profile accounts.
type RoleSwitch struct {
	Target   string `json:"target" form:"target" validate:"required,rawrole"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (rs *RoleSwitch) Validate(validate *validator.Validate) error {
	return validate.Struct(rs)
}
