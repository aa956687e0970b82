package marketplace

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/walimu/walimu/core/session"
)

var _ session.Backend = (*Client)(nil)

// rawUser is the backend's account payload. user_type is a raw string here and
// nowhere else: it is resolved to a session.Role before leaving this package.
type rawUser struct {
	Email             string      `json:"email"`
	FullName          string      `json:"full_name"`
	UserType          string      `json:"user_type"`
	BursaryName       null.String `json:"bursary_name"`
	UniqueID          null.String `json:"unique_id"`
	HasTutorProfile   bool        `json:"has_tutor_profile"`
	HasStudentProfile bool        `json:"has_student_profile"`
}

func (u rawUser) toProfile() (session.UserProfile, error) {
	role, err := session.ParseRole(u.UserType)
	if err != nil {
		return session.UserProfile{}, errors.Wrap(err, "resolving user_type")
	}
	return session.UserProfile{
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        role,
		BursaryName: u.BursaryName,
		UniqueID:    u.UniqueID,
		HasTutor:    u.HasTutorProfile,
		HasStudent:  u.HasStudentProfile,
	}, nil
}

type authResponse struct {
	Token string  `json:"token"`
	User  rawUser `json:"user"`
}

func (r authResponse) toResult() (session.AuthResult, error) {
	profile, err := r.User.toProfile()
	if err != nil {
		return session.AuthResult{}, err
	}
	return session.AuthResult{Token: r.Token, User: profile}, nil
}

func (c *Client) Login(ctx context.Context, email, password string, role session.Role) (session.AuthResult, error) {
	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role,omitempty"`
	}{email, password, string(role)}

	var res authResponse
	if err := c.post(ctx, "/auth/login", "", body, &res); err != nil {
		return session.AuthResult{}, err
	}
	return res.toResult()
}

func (c *Client) Register(ctx context.Context, acc session.NewAccount) (session.AuthResult, error) {
	body := struct {
		FullName     string `json:"full_name"`
		Email        string `json:"email"`
		UserType     string `json:"user_type"`
		Password     string `json:"password"`
		BursaryName  string `json:"bursary_name,omitempty"`
		ReferralCode string `json:"referral_code,omitempty"`
	}{acc.FullName, acc.Email, acc.Role, acc.Password, acc.BursaryName, acc.ReferralCode}

	var res authResponse
	if err := c.post(ctx, "/auth/register", "", body, &res); err != nil {
		return session.AuthResult{}, err
	}
	return res.toResult()
}

func (c *Client) Profile(ctx context.Context, token string) (session.UserProfile, error) {
	var raw rawUser
	if err := c.get(ctx, "/auth/profile", token, &raw); err != nil {
		return session.UserProfile{}, err
	}
	return raw.toProfile()
}
