// Package httpapi exposes the users service over HTTP with a chi router.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/usersapi/internal/logging"
	"github.com/dmitrijs2005/usersapi/internal/query"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
)

// UserService is what the handlers need from services.UserService.
type UserService interface {
	Find(ctx context.Context, f *query.Filter) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Add(ctx context.Context, u models.User) (*models.User, error)
	Update(ctx context.Context, p models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type Options struct {
	Address           string
	CORSOrigins       []string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

type HTTPServer struct {
	opts   Options
	users  UserService
	logger logging.Logger
}

func NewHTTPServer(opts Options, l logging.Logger, us UserService) *HTTPServer {
	if l == nil {
		l = logging.Nop{}
	}
	return &HTTPServer{
		opts:   opts,
		users:  us,
		logger: l.With("module", "http_server"),
	}
}

// Handler builds the router with its middleware chain.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.index)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.listUsers)
		r.Post("/", s.createUser)
		r.Put("/", s.updateUser)
		r.Get("/{username}", s.getUser)
		r.Delete("/{username}", s.deleteUser)
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Users API listening", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-errCh
}
