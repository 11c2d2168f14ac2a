// Package httpapi exposes the reference backend over HTTP: login/session
// endpoints, token-protected user CRUD and attachment downloads.
package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/logging"
	"github.com/dmitrijs2005/useradmin/internal/server/accounts"
	"github.com/dmitrijs2005/useradmin/internal/server/attachments"
	"github.com/dmitrijs2005/useradmin/internal/server/users"
	"github.com/gorilla/mux"
)

type Options struct {
	// MaxUploadSize caps multipart request bodies, in bytes.
	MaxUploadSize int64
	// SessionTTL is the max age of the session cookie set by /login.
	SessionTTL  time.Duration
	CORSOrigins []string
}

type Server struct {
	accounts *accounts.Service
	users    *users.Service
	storage  attachments.Storage
	opts     Options
	logger   logging.Logger
	started  time.Time
}

func NewServer(acc *accounts.Service, us *users.Service, storage attachments.Storage, opts Options, logger logging.Logger) *Server {
	return &Server{
		accounts: acc,
		users:    us,
		storage:  storage,
		opts:     opts,
		logger:   logger.With("module", "httpapi"),
		started:  time.Now(),
	}
}

// Handler returns the routed handler wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)

	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodGet)
	r.HandleFunc("/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/api/users", s.references).Methods(http.MethodGet)

	r.HandleFunc("/users", s.requireToken(s.listUsers)).Methods(http.MethodGet)
	r.HandleFunc("/user", s.requireToken(s.createUser)).Methods(http.MethodPost)
	r.HandleFunc("/user/{id:[0-9]+}", s.requireToken(s.updateUser)).Methods(http.MethodPut)
	r.HandleFunc("/user/{id:[0-9]+}", s.requireToken(s.deleteUser)).Methods(http.MethodDelete)

	r.HandleFunc("/uploads/{kind}/{name}", s.download).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return cors(s.opts.CORSOrigins, requestLogger(s.logger, r))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "OK",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}
