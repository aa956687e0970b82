package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/core/session"
	appfs "github.com/walimu/walimu/fs"
	"github.com/walimu/walimu/services/marketplace"
	placesvc "github.com/walimu/walimu/services/places"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		SessSvc    *session.Service
		Market     *marketplace.Client
		Places     *placesvc.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() chan os.Signal
	}

	server struct {
		conf       *core.Config
		logger     core.Logger
		sessSvc    *session.Service
		market     *marketplace.Client
		places     *placesvc.Service
		validate   *validator.Validate
		translator ut.Translator

		app       *echo.Echo
		jwtConfig middleware.JWTConfig
		shutdown  chan os.Signal
		errs      chan error
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		conf:       deps.Conf,
		logger:     deps.Logger,
		sessSvc:    deps.SessSvc,
		market:     deps.Market,
		places:     deps.Places,
		validate:   deps.Validate,
		translator: deps.Translator,
		app:        echo.New(),
		jwtConfig:  newJWTConfig(deps.Conf),
		shutdown:   make(chan os.Signal, 1),
		errs:       make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(s.conf.Debug || s.conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.logger, s.translator, s.signalShutdown)
	s.app.Debug = s.conf.Debug
	s.app.Renderer = newRenderer(s.conf)

	s.registerWebRoutes()
	s.registerDashboardRoutes()
	s.registerAPIRoutes()
}

// csrfMiddleware protects browser form posts. It is disabled in TEST mode so
// handler tests can post directly.
func (s *server) csrfMiddleware() echo.MiddlewareFunc {
	if s.conf.TestMode {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echo.WrapMiddleware(csrf.Protect(
		[]byte(s.conf.SecretKey),
		csrf.Secure(!s.conf.Debug),
		csrf.Path("/"),
	))
}

// registerWebRoutes wires the public HTML pages. Forms go through gorilla/csrf;
// none of these routes require a session.
func (s *server) registerWebRoutes() {
	s.app.GET("/static/*", echo.WrapHandler(
		http.StripPrefix("/static/", http.FileServer(http.FS(appfs.StaticFS)))))

	web := s.app.Group("", s.csrfMiddleware())
	web.GET("/", s.home)
	web.GET("/pages/:slug", s.contentPage)

	web.GET("/login", s.loginPage)
	web.POST("/login", s.login)
	web.GET("/signup", s.signupPage)
	web.POST("/signup", s.signup)
	web.POST("/logout", s.logout)

	web.GET("/request-tutor", s.tutorRequestPage)
	web.POST("/request-tutor", s.createTutorRequest)
}

// registerDashboardRoutes wires the role-scoped HTML dashboards. Each role's
// tree is guarded independently; /dashboard itself only dispatches.
func (s *server) registerDashboardRoutes() {
	d := s.app.Group("/dashboard", s.csrfMiddleware())
	d.GET("", s.dashboardHome, s.pageGuard())
	d.POST("/switch-role", s.switchRole, s.pageGuard())

	student := d.Group("/student", s.pageGuard(session.RoleStudent))
	student.GET("", s.studentDashboard)
	student.GET("/:section", s.studentDashboard)

	tutor := d.Group("/tutor", s.pageGuard(session.RoleTutor))
	tutor.GET("", s.tutorDashboard)
	tutor.GET("/:section", s.tutorDashboard)

	admin := d.Group("/admin", s.pageGuard(session.RoleAdmin))
	admin.GET("", s.adminDashboard)
	admin.GET("/:section", s.adminDashboard)

	bursary := d.Group("/bursary", s.pageGuard(session.RoleBursaryAdmin))
	bursary.GET("", s.bursaryDashboard)
	bursary.GET("/:section", s.bursaryDashboard)
}

// registerAPIRoutes wires the JSON endpoints backing in-page actions. These sit
// behind the JWT middleware, fed from either the Authorization header or the
// session cookie; role checks are per-group.
func (s *server) registerAPIRoutes() {
	v1 := s.app.Group("/v1", bearerFromCookie)
	jwt := middleware.JWTWithConfig(s.jwtConfig)

	// the public request-tutor form uses this; the handler never exposes the
	// Places key and degrades to an empty list
	v1.GET("/places/autocomplete", s.apiPlacesAutocomplete)

	sg := v1.Group("/session", jwt, s.roleMiddleware())
	sg.POST("/token-refresh", s.apiRefreshToken)
	sg.GET("/profile", s.apiProfile)

	cg := v1.Group("/chats", jwt, s.roleMiddleware(session.RoleStudent, session.RoleTutor))
	cg.GET("", s.apiChats)
	cg.GET("/:id/messages", s.apiMessages)
	cg.POST("/:id/messages", s.apiSendMessage)

	payg := v1.Group("/payments", jwt, s.roleMiddleware(session.RoleStudent, session.RoleBursaryAdmin))
	payg.GET("/checkout", s.apiNewCheckout)
	payg.POST("/verify", s.apiVerifyPayment)

	rg := v1.Group("/referrals", jwt, s.roleMiddleware(session.RoleStudent, session.RoleTutor))
	rg.POST("/invite", s.apiReferralInvite)
	rg.POST("/generate-code", s.apiGenerateReferralCode)

	trg := v1.Group("/tutor-requests", jwt, s.roleMiddleware(session.RoleAdmin))
	trg.POST("/:id/approve", s.apiApproveTutorRequest)
	trg.POST("/:id/reject", s.apiRejectTutorRequest)

	ug := v1.Group("/user-profiles", jwt, s.roleMiddleware(session.RoleAdmin))
	ug.PATCH("/:id", s.apiUpdateUserProfile)
	ug.DELETE("/:id", s.apiDeleteUserProfile)

	lg := v1.Group("/lessons", jwt, s.roleMiddleware(session.RoleTutor))
	lg.POST("", s.apiCreateLesson)
	lg.PATCH("/:id", s.apiUpdateLesson)

	revg := v1.Group("/reviews", jwt, s.roleMiddleware(session.RoleStudent))
	revg.POST("", s.apiCreateReview)
}

func (s *server) Start() {
	s.errs <- s.app.Start(s.conf.Server.Addr)
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errs
}

func (s *server) ShutdownSignal() chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
