// Package httpapi serves the portal over plain HTTP with JSON bodies.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophportal/internal/logging"
	"github.com/dmitrijs2005/gophportal/internal/server/models"
	"github.com/dmitrijs2005/gophportal/internal/server/services"
	"github.com/julienschmidt/httprouter"
)

const shutdownTimeout = 5 * time.Second

type AuthService interface {
	Login(ctx context.Context, email, password string) (*services.Token, error)
	CurrentIdentity(ctx context.Context, token string) (*models.Account, error)
}

type AccountService interface {
	Create(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	Get(ctx context.Context, current *models.Account, id string) (*models.Account, error)
	Update(ctx context.Context, current *models.Account, id string, in services.UpdateAccountInput) (string, error)
	Delete(ctx context.Context, current *models.Account, id string) (string, error)
	GrantAdmin(ctx context.Context, current *models.Account, id string) (string, error)
	RevokeAdmin(ctx context.Context, current *models.Account, id string) (string, error)
}

type AvatarService interface {
	UploadURL(ctx context.Context, current *models.Account, id string) (*services.PresignedURL, error)
	DownloadURL(ctx context.Context, current *models.Account, id string) (*services.PresignedURL, error)
}

type HTTPServer struct {
	address  string
	auth     AuthService
	accounts AccountService
	avatars  AvatarService
	logger   logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, as AuthService, acs AccountService, avs AvatarService) *HTTPServer {
	return &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		auth:     as,
		accounts: acs,
		avatars:  avs,
	}
}

// Handler builds the router with every route registered.
func (s *HTTPServer) Handler() http.Handler {
	router := httprouter.New()

	router.GET("/ping", s.ping)

	router.POST("/login/token", s.login)

	router.POST("/user/", s.createAccount)
	router.GET("/user/", s.authenticated(s.getAccount))
	router.PATCH("/user/", s.authenticated(s.updateAccount))
	router.DELETE("/user/", s.authenticated(s.deleteAccount))

	router.PATCH("/user/admin_privilege", s.authenticated(s.grantAdmin))
	router.DELETE("/user/admin_privilege", s.authenticated(s.revokeAdmin))

	router.GET("/user/avatar", s.authenticated(s.avatarDownloadURL))
	router.PUT("/user/avatar", s.authenticated(s.avatarUploadURL))

	return &accessLog{router: router, logger: s.logger}
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown failed", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// accessLog logs one line per request.
type accessLog struct {
	router http.Handler
	logger logging.Logger
}

func (a *accessLog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	a.router.ServeHTTP(rec, r)
	a.logger.Info(r.Context(), "request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start).String(),
	)
}
