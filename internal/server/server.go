// Package server is the HTTP surface of the matchmaker: profile submission,
// match browsing and session handling. One synchronous pass per interaction;
// every external call runs under a bounded per-request timeout.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/matchpoint-app/matchpoint/internal/matchmaker"
	"github.com/matchpoint-app/matchpoint/internal/profile"
	"github.com/matchpoint-app/matchpoint/internal/store"
)

const (
	defaultCandidateLimit = 5
	defaultCallTimeout    = 60 * time.Second
)

// profileAnalyzer extracts structured traits from a bio.
type profileAnalyzer interface {
	AnalyzeProfile(ctx context.Context, bio string) (*matchmaker.Analysis, error)
}

// compatibilityScorer assesses one candidate pair.
type compatibilityScorer interface {
	Score(ctx context.Context, a, b *profile.User) (*profile.Compatibility, error)
}

// transcriber converts uploaded audio into bio text.
type transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Server wires the store, the model-backed operations and the session
// registry behind the router.
type Server struct {
	store       store.Store
	analyzer    profileAnalyzer
	scorer      compatibilityScorer
	transcriber transcriber
	sessions    *sessions
	logger      *zap.Logger

	candidateLimit int
	callTimeout    time.Duration
}

// Options tune the controller; zero values fall back to defaults.
type Options struct {
	CandidateLimit int
	CallTimeout    time.Duration
}

func New(st store.Store, analyzer profileAnalyzer, scorer compatibilityScorer, tr transcriber, logger *zap.Logger, opts Options) *Server {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = defaultCandidateLimit
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}

	return &Server{
		store:          st,
		analyzer:       analyzer,
		scorer:         scorer,
		transcriber:    tr,
		sessions:       newSessions(),
		logger:         logger,
		candidateLimit: opts.CandidateLimit,
		callTimeout:    opts.CallTimeout,
	}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/profile", s.handleCreateProfile).Methods(http.MethodPost)
	api.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/matches", s.handleGetMatches).Methods(http.MethodGet)
	api.HandleFunc("/matches/refresh", s.handleRefreshMatches).Methods(http.MethodPost)
	api.HandleFunc("/matches/{id}/select", s.handleSelectMatch).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// callCtx bounds one external call; expiry follows the same failure path as
// any other API error.
func (s *Server) callCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.callTimeout)
}
