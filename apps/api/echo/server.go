package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/dig"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

type (
	ServerDeps struct {
		dig.In

		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		UserSvc    *user.Service
		AcademySvc *academy.Service
		InsightSvc *insight.Service
		Stats      stats.Source
	}

	Server struct {
		deps ServerDeps
		app  *echo.Echo
		auth *authenticator

		// ctx outlives requests; it bounds the signup registrations.
		ctx    context.Context
		cancel context.CancelFunc

		shutdown chan os.Signal
		errors   chan error
	}
)

func NewServer(deps ServerDeps) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf),
		ctx:      ctx,
		cancel:   cancel,
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := s.auth.middleware()

	registerAccountAPI(v1, jwt, s)
	registerAdminAPI(v1.Group("/admin", jwt, roleMiddleware(user.RoleAdmin)), s)
	registerTrainerAPI(v1.Group("/trainer", jwt, roleMiddleware(user.RoleTrainer)), s)
	registerStudentAPI(v1.Group("/student", jwt, roleMiddleware(user.RoleStudent)), s)
}

// Start listens on the configured address. It blocks until the server is shut down;
// listen failures are reported on Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the owner of the server to shut it down.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

// Shutdown cancels the pending registrations and stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	s.cancel()
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// Token signs a session token for usr.
func (s *Server) Token(usr user.User) (string, error) {
	return s.auth.generateToken(usr)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduManage API!")
}
