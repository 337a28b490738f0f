package web

import (
	"context"
	"net/http"
	"time"

	"grn-daily/internal/admin"
	"grn-daily/internal/blob"
	"grn-daily/internal/news"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const sessionCookie = "grnd_session"

type Server struct {
	repo     *news.Repository
	subs     *news.Subscribers
	admin    *admin.Service
	sessions *admin.SessionStore
	media    *blob.LocalStore // nil when uploads live on S3

	adminToken string
	logger     *zap.Logger
	router     *mux.Router
	server     *http.Server
}

func NewServer(repo *news.Repository, subs *news.Subscribers, adminSvc *admin.Service, sessions *admin.SessionStore, media *blob.LocalStore, adminToken string, logger *zap.Logger) *Server {
	s := &Server{
		repo:       repo,
		subs:       subs,
		admin:      adminSvc,
		sessions:   sessions,
		media:      media,
		adminToken: adminToken,
		logger:     logger,
		router:     mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Reader routes
	s.router.HandleFunc("/", s.handleFrontPage).Methods("GET")
	s.router.HandleFunc("/news", s.handleCatalogue).Methods("GET")
	s.router.HandleFunc("/category/{category}", s.handleCategory).Methods("GET")
	s.router.HandleFunc("/article/{id}", s.handleArticle).Methods("GET")
	s.router.HandleFunc("/subscribe", s.handleSubscribe).Methods("POST")

	// Admin console API
	s.router.HandleFunc("/admin/login", s.handleLogin).Methods("POST")
	s.router.HandleFunc("/admin/logout", s.requireAdmin(s.handleLogout)).Methods("POST")
	s.router.HandleFunc("/admin/articles", s.requireAdmin(s.handleAdminList)).Methods("GET")
	s.router.HandleFunc("/admin/articles", s.requireAdmin(s.handleCreate)).Methods("POST")
	s.router.HandleFunc("/admin/articles/{id}", s.requireAdmin(s.handleEdit)).Methods("POST")
	s.router.HandleFunc("/admin/articles/{id}/archive", s.requireAdmin(s.handleArchive)).Methods("POST")
	s.router.HandleFunc("/admin/articles/{id}/delete", s.requireAdmin(s.handleDelete)).Methods("POST")
	s.router.HandleFunc("/admin/subscribers", s.requireAdmin(s.handleSubscribers)).Methods("GET")

	// Locally stored uploads
	if s.media != nil {
		s.router.PathPrefix("/media/").Handler(s.media)
	}
}

// Start launches the HTTP server
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	s.logger.Info("Web server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requireAdmin resolves the session cookie to an actor and hands it to
// the wrapped handler. Mutations never read sign-in state from anywhere
// else.
func (s *Server) requireAdmin(next func(actor string, w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Error(w, "sign in first", http.StatusUnauthorized)
			return
		}
		actor, err := s.sessions.Lookup(r.Context(), cookie.Value)
		if err != nil {
			http.Error(w, "session expired, sign in again", http.StatusUnauthorized)
			return
		}
		next(actor, w, r)
	}
}
