// Package rest exposes the authentication services over JSON/HTTP and serves
// the single-page frontend bundle.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authboard/internal/logging"
	"github.com/dmitrijs2005/authboard/internal/server/models"
	"github.com/dmitrijs2005/authboard/internal/server/services"
)

// Authenticator is the part of services.UserService the handlers use.
type Authenticator interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	RequireAdmin(user *models.User) error
}

// Pages is the part of services.PageService the handlers use.
type Pages interface {
	Dashboard(ctx context.Context, user *models.User) (*services.DashboardView, error)
	Profile(ctx context.Context, user *models.User) (*services.ProfileView, error)
	AdminPanel(ctx context.Context, user *models.User) (*services.AdminView, error)
}

// Options tune the HTTP server. Zero values fall back to defaults.
type Options struct {
	StaticDir       string
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

type HTTPServer struct {
	address string
	logger  logging.Logger
	users   Authenticator
	pages   Pages
	opts    Options
	handler http.Handler
}

func NewHTTPServer(a string, l logging.Logger, us Authenticator, ps Pages, opts Options) (*HTTPServer, error) {
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = defaultIdleTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		pages:   ps,
		opts:    opts,
	}
	s.handler = s.router()
	return s, nil
}

// Handler returns the fully wired router.
func (s *HTTPServer) Handler() http.Handler { return s.handler }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most ShutdownTimeout.
func (s *HTTPServer) Run(ctx context.Context) error {

	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
