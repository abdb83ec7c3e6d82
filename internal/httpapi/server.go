package httpapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tandabase/internal/app/issues"
	"tandabase/internal/app/playlists"
	"tandabase/internal/app/songs"
	"tandabase/internal/app/suggestions"
	"tandabase/internal/app/tandas"
	"tandabase/internal/app/users"
	httpmw "tandabase/internal/http/middleware"
	"tandabase/internal/querycache"
	"tandabase/shared/go/middleware"
)

const (
	songsRoute     = "/api/v1/songs"
	tandasRoute    = "/api/v1/tandas"
	playlistsRoute = "/api/v1/playlists"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the application services behind the handlers.
type Services struct {
	Users       users.Service
	Songs       songs.Service
	Tandas      tandas.Service
	Playlists   playlists.Service
	Suggestions suggestions.Service
	Issues      issues.Service
}

// Options configures the outer middleware chain.
type Options struct {
	AllowedOrigins []string
	Tokens         middleware.TokenParser
	Cache          *querycache.Cache
	DB             Pinger
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users       users.Service
	songs       songs.Service
	tandas      tandas.Service
	playlists   playlists.Service
	suggestions suggestions.Service
	issues      issues.Service

	cache    *querycache.Cache
	db       Pinger
	opts     Options
	validate *validator.Validate
}

// New configures a Server with the given services.
func New(svc Services, opts Options) *Server {
	return &Server{
		users:       svc.Users,
		songs:       svc.Songs,
		tandas:      svc.Tandas,
		playlists:   svc.Playlists,
		suggestions: svc.Suggestions,
		issues:      svc.Issues,
		cache:       opts.Cache,
		db:          opts.DB,
		opts:        opts,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes exposes the API behind request logging, recovery, CORS and
// authentication. Route metrics are recorded inside the router.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()
	router.Use(httpmw.Metrics(httpmw.DefaultMetricsConfig()))

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	s.registerAccountRoutes(api)
	s.registerSongRoutes(api)
	s.registerTandaRoutes(api)
	s.registerPlaylistRoutes(api)
	s.registerSuggestionRoutes(api)
	s.registerIssueRoutes(api)

	var handler http.Handler = router
	if s.opts.Tokens != nil {
		handler = middleware.Authenticate(s.opts.Tokens)(handler)
	}
	handler = httpmw.CORS(s.opts.AllowedOrigins)(handler)
	handler = middleware.Recovery()(handler)
	handler = middleware.RequestLogging()(handler)
	return handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
