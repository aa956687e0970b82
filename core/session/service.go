package session

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/core"
)

var (
	ErrNoDualProfile = errors.New("account does not hold the requested profile")
)

// Service is the session provider: the single owner of token+profile state.
// It is constructed once at app root and handed to consumers explicitly; there
// is no ambient session state anywhere else.
type Service struct {
	store   Store
	backend Backend
	mailSvc core.EmailService
	conf    *core.Config
	logger  core.Logger
}

func NewService(store Store, backend Backend, mailSvc core.EmailService, conf *core.Config, logger core.Logger) *Service {
	return &Service{
		store:   store,
		backend: backend,
		mailSvc: mailSvc,
		conf:    conf,
		logger:  logger,
	}
}

// Login authenticates against the backend and, only on success, writes a new
// session. A failed login leaves any prior session untouched.
func (svc *Service) Login(ctx context.Context, email, password string, role Role) (Session, error) {
	res, err := svc.backend.Login(ctx, core.CleanString(email, true /* lower */), password, role)
	if err != nil {
		return Session{}, err
	}
	return svc.create(ctx, res)
}

// Register creates an account on the backend and opens a session with the
// returned token, then sends the welcome email.
func (svc *Service) Register(ctx context.Context, acc NewAccount) (Session, error) {
	res, err := svc.backend.Register(ctx, acc)
	if err != nil {
		return Session{}, err
	}
	sess, err := svc.create(ctx, res)
	if err != nil {
		return Session{}, err
	}
	svc.sendWelcomeEmail(res.User)
	return sess, nil
}

// Get loads the session for sid; ErrNotFound means logged out.
func (svc *Service) Get(ctx context.Context, sid string) (Session, error) {
	return svc.store.Get(ctx, sid)
}

// Logout clears both session entries unconditionally. It always succeeds for
// an absent session and makes no backend call; the token is simply dropped.
func (svc *Service) Logout(ctx context.Context, sid string) error {
	return svc.store.Delete(ctx, sid)
}

// RefreshProfile re-fetches the profile and overwrites the cached one.
// It is a no-op returning nil when no session (hence no token) is held.
// An auth error from the backend is returned as-is: that first failing call is
// the only place an expired token is ever discovered.
func (svc *Service) RefreshProfile(ctx context.Context, sid string) (*UserProfile, error) {
	sess, err := svc.store.Get(ctx, sid)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "loading session")
	}

	profile, err := svc.backend.Profile(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	sess.User = &profile
	if err = svc.store.Save(ctx, sid, sess); err != nil {
		return nil, errors.Wrap(err, "saving refreshed profile")
	}
	return &profile, nil
}

// SwitchRole is a step-up confirmation for accounts holding both a student and
// a tutor profile: it re-authenticates with the target role's password before
// the context switch. Failure leaves the current session unchanged; success
// replaces the session's token and effective role under the same sid.
func (svc *Service) SwitchRole(ctx context.Context, sid string, target Role, password string) (Session, error) {
	sess, err := svc.store.Get(ctx, sid)
	if err != nil {
		return Session{}, errors.Wrap(err, "loading session")
	}
	if !sess.User.CanSwitchTo(target) {
		return Session{}, ErrNoDualProfile
	}

	res, err := svc.backend.Login(ctx, sess.User.Email, password, target)
	if err != nil {
		return Session{}, err
	}

	next := Session{SID: sid, Token: res.Token, User: &res.User}
	if err = svc.store.Save(ctx, sid, next); err != nil {
		return Session{}, errors.Wrap(err, "saving switched session")
	}
	return next, nil
}

func (svc *Service) create(ctx context.Context, res AuthResult) (Session, error) {
	sess := Session{
		SID:   uuid.NewString(),
		Token: res.Token,
		User:  &res.User,
	}
	if err := svc.store.Save(ctx, sess.SID, sess); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return sess, nil
}

func (svc *Service) sendWelcomeEmail(profile UserProfile) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: profile.FullName, Address: profile.Email}},
		Subject:      "Welcome to " + svc.conf.AppName,
		TemplateName: "welcome",
		TemplateData: profile,
	})
}

// SendReferralInvite emails a referral code to a prospective student.
func (svc *Service) SendReferralInvite(inviter UserProfile, email, code string) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: email}},
		Subject:      fmt.Sprintf("%s invited you to %s", inviter.FullName, svc.conf.AppName),
		TemplateName: "referral",
		TemplateData: struct {
			Inviter UserProfile
			Code    string
		}{inviter, code},
	})
}
