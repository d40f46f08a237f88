// Package api exposes the REST surface of the server: authentication
// endpoints, the bearer-token access guard, and the owned-task CRUD
// handlers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskhub/internal/logging"
	"github.com/dmitrijs2005/taskhub/internal/server/models"
	"github.com/dmitrijs2005/taskhub/internal/server/services"
	"github.com/gorilla/mux"
)

// userService is the slice of services.UserService the handlers need.
type userService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// taskService is the slice of services.TaskService the handlers need.
type taskService interface {
	Create(ctx context.Context, ownerID string, p services.CreateTaskParams) (*models.Task, error)
	ListByOwner(ctx context.Context, callerID string) ([]*models.Task, error)
	Get(ctx context.Context, id, callerID string) (*models.Task, error)
	Update(ctx context.Context, id, callerID string, p services.UpdateTaskParams) (*models.Task, error)
	Delete(ctx context.Context, id, callerID string) error
}

type Server struct {
	address   string
	logger    logging.Logger
	users     userService
	tasks     taskService
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us userService, ts taskService, secretKey string) (*Server, error) {
	return &Server{
		address:   a,
		logger:    l.With("module", "api_server"),
		users:     us,
		tasks:     ts,
		jwtSecret: []byte(secretKey),
	}, nil
}

// Router builds the route table. Task and user routes sit behind the
// access guard; the auth endpoints stay public.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(s.authMiddleware)
	protected.HandleFunc("/users/me", s.handleCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPatch)
	protected.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
