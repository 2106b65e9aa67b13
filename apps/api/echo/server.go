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
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dahire100/FrontierLMS-sub005/core"
	"github.com/Dahire100/FrontierLMS-sub005/core/collection"
	"github.com/Dahire100/FrontierLMS-sub005/resources"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Service        *collection.Service
		Catalog        *resources.Catalog
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		ServerDeps
		app        *echo.Echo
		jwt        middleware.JWTConfig
		adminHash  []byte
		validate   *validator.Validate
		translator ut.Translator
		errors     chan error
		shutdown   chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) (Server, error) {
	cost := bcrypt.DefaultCost
	if deps.Conf.TestMode {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(deps.Conf.Server.AdminPassword), cost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing admin password")
	}
	if deps.Logger == nil {
		deps.Logger = core.NopLogger
	}

	s := &server{
		ServerDeps: deps,
		app:        echo.New(),
		jwt:        newJWTConfig(deps.Conf.Server.SecretKey),
		adminHash:  hash,
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	s.validate, s.translator = core.NewValidator()
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s, nil
}

func (s *server) setup() {
	debug := s.Conf.Debug

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.translator, s.signalShutdown)
	s.app.Debug = debug

	s.app.GET("/", s.home)

	jwt := middleware.JWTWithConfig(s.jwt)

	registerAuthAPI(s.app.Group("/api/auth"), jwt, s)
	registerPromoteAPI(s.app, jwt, s.Service)
	for _, def := range s.Catalog.All() {
		registerRecordAPI(s.app.Group(def.Endpoint, jwt, adminMiddleware()), def, s.Service)
	}
}

func (s *server) Start() {
	s.Logger.Info("API listening on " + s.Conf.Server.Address)
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.Conf.AppName+" API!")
}
