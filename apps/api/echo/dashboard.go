package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/walimu/walimu/core/session"
	"github.com/walimu/walimu/services/marketplace"
)

// panel is one hydrated slice of a dashboard section. Fetch failures stay
// inside the panel: one upstream error never blanks the rest of the page.
type panel struct {
	Error string
	Data  interface{}
}

type dashboardPage struct {
	Role     session.Role
	Section  string
	Sections []RouteDescriptor

	CanSwitch    bool
	SwitchTarget session.Role
	SwitchFailed bool

	Panels map[string]panel
}

var (
	studentSections = []RouteDescriptor{
		{Path: "/dashboard/student", Name: "Overview", Roles: []session.Role{session.RoleStudent}},
		{Path: "/dashboard/student/lessons", Name: "My Lessons", Roles: []session.Role{session.RoleStudent}},
		{Path: "/dashboard/student/tutors", Name: "Find Tutors", Roles: []session.Role{session.RoleStudent}},
		{Path: "/dashboard/student/payments", Name: "Payments", Roles: []session.Role{session.RoleStudent}},
		{Path: "/dashboard/student/referrals", Name: "Referrals", Roles: []session.Role{session.RoleStudent}},
		{Path: "/dashboard/student/chats", Name: "Messages", Roles: []session.Role{session.RoleStudent}},
		{Path: "/dashboard/student/reviews", Name: "Reviews", Roles: []session.Role{session.RoleStudent}},
	}

	tutorSections = []RouteDescriptor{
		{Path: "/dashboard/tutor", Name: "Overview", Roles: []session.Role{session.RoleTutor}},
		{Path: "/dashboard/tutor/lessons", Name: "Lessons", Roles: []session.Role{session.RoleTutor}},
		{Path: "/dashboard/tutor/students", Name: "My Students", Roles: []session.Role{session.RoleTutor}},
		{Path: "/dashboard/tutor/earnings", Name: "Earnings", Roles: []session.Role{session.RoleTutor}},
		{Path: "/dashboard/tutor/referrals", Name: "Referrals", Roles: []session.Role{session.RoleTutor}},
		{Path: "/dashboard/tutor/chats", Name: "Messages", Roles: []session.Role{session.RoleTutor}},
	}

	adminSections = []RouteDescriptor{
		{Path: "/dashboard/admin", Name: "Overview", Roles: []session.Role{session.RoleAdmin}},
		{Path: "/dashboard/admin/requests", Name: "Tutor Requests", Roles: []session.Role{session.RoleAdmin}},
		{Path: "/dashboard/admin/users", Name: "Users", Roles: []session.Role{session.RoleAdmin}},
		{Path: "/dashboard/admin/payments", Name: "Payments", Roles: []session.Role{session.RoleAdmin}},
		{Path: "/dashboard/admin/analytics", Name: "Analytics", Roles: []session.Role{session.RoleAdmin}},
	}

	bursarySections = []RouteDescriptor{
		{Path: "/dashboard/bursary", Name: "Overview", Roles: []session.Role{session.RoleBursaryAdmin}},
		{Path: "/dashboard/bursary/students", Name: "Sponsored Students", Roles: []session.Role{session.RoleBursaryAdmin}},
		{Path: "/dashboard/bursary/payments", Name: "Payments", Roles: []session.Role{session.RoleBursaryAdmin}},
	}
)

// dashboardHome dispatches an authenticated visitor to their role's dashboard.
func (s *server) dashboardHome(ctx echo.Context) error {
	sess, err := s.getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.Redirect(http.StatusFound, sess.User.Role.DashboardPath())
}

func (s *server) studentDashboard(ctx echo.Context) error {
	return s.renderDashboard(ctx, session.RoleStudent, studentSections, s.studentPanels)
}

func (s *server) tutorDashboard(ctx echo.Context) error {
	return s.renderDashboard(ctx, session.RoleTutor, tutorSections, s.tutorPanels)
}

func (s *server) adminDashboard(ctx echo.Context) error {
	return s.renderDashboard(ctx, session.RoleAdmin, adminSections, s.adminPanels)
}

func (s *server) bursaryDashboard(ctx echo.Context) error {
	return s.renderDashboard(ctx, session.RoleBursaryAdmin, bursarySections, s.bursaryPanels)
}

type panelsFunc func(ctx echo.Context, token, section string) (map[string]panel, bool)

func (s *server) renderDashboard(ctx echo.Context, role session.Role, sections []RouteDescriptor, panels panelsFunc) error {
	sess, ok, err := s.hydrateSession(ctx)
	if err != nil || !ok {
		return err
	}

	section := ctx.Param("section")
	if section == "" {
		section = "overview"
	}

	pnls, known := panels(ctx, sess.Token, section)
	if !known {
		return echo.NewHTTPError(http.StatusNotFound, "unknown dashboard section")
	}

	data := dashboardPage{
		Role:         role,
		Section:      section,
		Sections:     sections,
		SwitchFailed: ctx.QueryParam("switch") == "failed",
		Panels:       pnls,
	}
	switch {
	case sess.User.CanSwitchTo(session.RoleTutor):
		data.CanSwitch, data.SwitchTarget = true, session.RoleTutor
	case sess.User.CanSwitchTo(session.RoleStudent):
		data.CanSwitch, data.SwitchTarget = true, session.RoleStudent
	}

	p := s.newPage(ctx, role.Name()+" Dashboard")
	p.User = sess.User
	p.Nav = sections
	p.Section = section
	p.Data = data
	return ctx.Render(http.StatusOK, "dashboard", p)
}

// hydrateSession refreshes the cached profile before a dashboard render. This
// is the first backend call of the page: a backend auth error here means the
// held token has expired, so the session is cleared and the visitor is sent to
// login. If the backend is unreachable the cached profile still renders; the
// per-section fetches will surface their own errors.
func (s *server) hydrateSession(ctx echo.Context) (session.Session, bool, error) {
	sess, err := s.getContextSession(ctx)
	if err != nil {
		return session.Session{}, false, err
	}

	profile, err := s.sessSvc.RefreshProfile(ctx.Request().Context(), sess.SID)
	if err != nil {
		if marketplace.IsAuthError(err) {
			_ = s.sessSvc.Logout(ctx.Request().Context(), sess.SID)
			s.clearSessionCookie(ctx)
			return session.Session{}, false, ctx.Redirect(http.StatusFound, loginPath)
		}
		if marketplace.IsUnavailable(err) {
			return sess, true, nil
		}
		return session.Session{}, false, err
	}
	if profile == nil {
		s.clearSessionCookie(ctx)
		return session.Session{}, false, ctx.Redirect(http.StatusFound, loginPath)
	}

	sess.User = profile
	ctx.Set(contextSessionKey, sess)
	return sess, true, nil
}

// panel runs one fetch and boxes the outcome. Backend messages show verbatim;
// anything else is logged and replaced with a generic line.
func (s *server) panel(fetch func() (interface{}, error)) panel {
	data, err := fetch()
	if err == nil {
		return panel{Data: data}
	}
	if msg, ok := formMessage(err); ok {
		return panel{Error: msg}
	}
	s.logger.Error("dashboard fetch failed", err)
	return panel{Error: "Something went wrong loading this section."}
}

func (s *server) studentPanels(ctx echo.Context, token, section string) (map[string]panel, bool) {
	rc := ctx.Request().Context()
	switch section {
	case "overview":
		return map[string]panel{
			"lessons":  s.panel(func() (interface{}, error) { return s.market.Lessons(rc, token) }),
			"payments": s.panel(func() (interface{}, error) { return s.market.PaymentSummary(rc, token) }),
			"stats":    s.panel(func() (interface{}, error) { return s.market.ReferralStats(rc, token) }),
		}, true
	case "lessons":
		return map[string]panel{
			"lessons": s.panel(func() (interface{}, error) { return s.market.Lessons(rc, token) }),
			"courses": s.panel(func() (interface{}, error) { return s.market.Courses(rc, token) }),
		}, true
	case "tutors":
		return map[string]panel{
			"tutors": s.panel(func() (interface{}, error) { return s.market.UserProfiles(rc, token, "tutor") }),
		}, true
	case "payments":
		return map[string]panel{
			"payments": s.panel(func() (interface{}, error) { return s.market.Payments(rc, token) }),
			"summary":  s.panel(func() (interface{}, error) { return s.market.PaymentSummary(rc, token) }),
		}, true
	case "referrals":
		return map[string]panel{
			"referrals": s.panel(func() (interface{}, error) { return s.market.Referrals(rc, token) }),
			"stats":     s.panel(func() (interface{}, error) { return s.market.ReferralStats(rc, token) }),
		}, true
	case "chats":
		return map[string]panel{
			"chats": s.panel(func() (interface{}, error) { return s.market.Chats(rc, token) }),
		}, true
	case "reviews":
		return map[string]panel{
			"reviews": s.panel(func() (interface{}, error) { return s.market.Reviews(rc, token) }),
		}, true
	}
	return nil, false
}

func (s *server) tutorPanels(ctx echo.Context, token, section string) (map[string]panel, bool) {
	rc := ctx.Request().Context()
	switch section {
	case "overview":
		return map[string]panel{
			"lessons": s.panel(func() (interface{}, error) { return s.market.Lessons(rc, token) }),
			"summary": s.panel(func() (interface{}, error) { return s.market.PaymentSummary(rc, token) }),
		}, true
	case "lessons":
		return map[string]panel{
			"lessons": s.panel(func() (interface{}, error) { return s.market.Lessons(rc, token) }),
		}, true
	case "students":
		return map[string]panel{
			"students": s.panel(func() (interface{}, error) { return s.market.UserProfiles(rc, token, "student") }),
		}, true
	case "earnings":
		return map[string]panel{
			"payments": s.panel(func() (interface{}, error) { return s.market.Payments(rc, token) }),
			"summary":  s.panel(func() (interface{}, error) { return s.market.PaymentSummary(rc, token) }),
		}, true
	case "referrals":
		return map[string]panel{
			"referrals": s.panel(func() (interface{}, error) { return s.market.Referrals(rc, token) }),
			"stats":     s.panel(func() (interface{}, error) { return s.market.ReferralStats(rc, token) }),
		}, true
	case "chats":
		return map[string]panel{
			"chats": s.panel(func() (interface{}, error) { return s.market.Chats(rc, token) }),
		}, true
	}
	return nil, false
}

func (s *server) adminPanels(ctx echo.Context, token, section string) (map[string]panel, bool) {
	rc := ctx.Request().Context()
	switch section {
	case "overview":
		return map[string]panel{
			"analytics": s.panel(func() (interface{}, error) { return s.market.DashboardAnalytics(rc, token) }),
			"requests":  s.panel(func() (interface{}, error) { return s.market.TutorRequestStats(rc, token) }),
		}, true
	case "requests":
		return map[string]panel{
			"requests": s.panel(func() (interface{}, error) { return s.market.TutorRequests(rc, token) }),
			"stats":    s.panel(func() (interface{}, error) { return s.market.TutorRequestStats(rc, token) }),
		}, true
	case "users":
		return map[string]panel{
			"users": s.panel(func() (interface{}, error) { return s.market.UserProfiles(rc, token, ctx.QueryParam("type")) }),
		}, true
	case "payments":
		return map[string]panel{
			"payments": s.panel(func() (interface{}, error) { return s.market.Payments(rc, token) }),
			"summary":  s.panel(func() (interface{}, error) { return s.market.PaymentSummary(rc, token) }),
		}, true
	case "analytics":
		return map[string]panel{
			"analytics": s.panel(func() (interface{}, error) { return s.market.ComprehensiveAnalytics(rc, token) }),
		}, true
	}
	return nil, false
}

func (s *server) bursaryPanels(ctx echo.Context, token, section string) (map[string]panel, bool) {
	rc := ctx.Request().Context()
	switch section {
	case "overview":
		return map[string]panel{
			"summary":  s.panel(func() (interface{}, error) { return s.market.PaymentSummary(rc, token) }),
			"students": s.panel(func() (interface{}, error) { return s.market.UserProfiles(rc, token, "student") }),
		}, true
	case "students":
		return map[string]panel{
			"students": s.panel(func() (interface{}, error) { return s.market.UserProfiles(rc, token, "student") }),
		}, true
	case "payments":
		return map[string]panel{
			"payments": s.panel(func() (interface{}, error) { return s.market.Payments(rc, token) }),
			"summary":  s.panel(func() (interface{}, error) { return s.market.PaymentSummary(rc, token) }),
		}, true
	}
	return nil, false
}
