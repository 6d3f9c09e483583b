// Package server exposes a workspace session as a small JSON API on
// localhost.
package server

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/sadopc/minima/internal/workspace"
)

type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// AccessLog receives one Apache-style line per request. Nil disables it.
	AccessLog io.Writer
	Logger    *log.Logger
}

type Server struct {
	session *workspace.Session
	opts    Options
	logger  *log.Logger
}

func New(session *workspace.Session, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{session: session, opts: opts, logger: logger}
}

// Router returns the bare route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(contentTypeJSON)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tasks", s.listTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.createTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", s.getTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", s.updateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}/status", s.changeStatus).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}", s.deleteTask).Methods(http.MethodDelete)

	api.HandleFunc("/projects", s.listProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.createProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", s.updateProject).Methods(http.MethodPut)
	api.HandleFunc("/projects/{id}", s.deleteProject).Methods(http.MethodDelete)
	api.HandleFunc("/projects/{id}/board", s.projectBoard).Methods(http.MethodGet)

	api.HandleFunc("/dashboard", s.dashboard).Methods(http.MethodGet)

	api.HandleFunc("/notifications", s.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/read-all", s.markAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read", s.markRead).Methods(http.MethodPost)

	api.HandleFunc("/me", s.me).Methods(http.MethodGet)
	api.HandleFunc("/me", s.updateProfile).Methods(http.MethodPut)

	return r
}

// Handler is the router wrapped with CORS and access logging.
func (s *Server) Handler() http.Handler {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(origins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "PATCH"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type"}),
	)

	var h http.Handler = cors(s.Router())
	if s.opts.AccessLog != nil {
		h = gorillaHandlers.LoggingHandler(s.opts.AccessLog, h)
	}
	return h
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Println("server stopped")
	return nil
}

func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
