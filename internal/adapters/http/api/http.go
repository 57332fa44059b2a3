// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/birdiedeals/birdie/internal/adapters/http/auth"
	"github.com/birdiedeals/birdie/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DealDependencies
	UserDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	verifier      *auth.Verifier
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	dealsHandler  *DealsHandler
	usersHandler  *UsersHandler
}

// NewServer creates a new API server with all handlers. Routes under
// /api other than the featured list require a bearer token checked by v.
func NewServer(deps Dependencies, statsProvider StatsProvider, v *auth.Verifier) *Server {
	if v == nil {
		panic("token verifier is nil")
	}
	return &Server{
		verifier:      v,
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		dealsHandler:  NewDealsHandler(deps),
		usersHandler:  NewUsersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /api/deals/featured", MetricsMiddleware(s.dealsHandler.HandleFeatured, "deals_featured"))
	mux.HandleFunc("GET /api/deals/suggested", MetricsMiddleware(s.protect(s.dealsHandler.HandleSuggested), "deals_suggested"))
	mux.HandleFunc("POST /api/deals/view", MetricsMiddleware(s.protect(s.dealsHandler.HandleView), "deals_view"))
	mux.HandleFunc("POST /api/deals/click", MetricsMiddleware(s.protect(s.dealsHandler.HandleClick), "deals_click"))
	mux.HandleFunc("GET /api/me", MetricsMiddleware(s.protect(s.usersHandler.HandleMe), "me"))
	mux.HandleFunc("POST /api/profile", MetricsMiddleware(s.protect(s.usersHandler.HandleUpdateProfile), "profile"))
}

func (s *Server) protect(h http.HandlerFunc) http.HandlerFunc {
	return s.verifier.Middleware(h).ServeHTTP
}

// currentUser resolves the authenticated caller to their stored record.
func currentUser(r *http.Request, deps UserDependencies) (model.User, error) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		return model.User{}, auth.ErrMissingToken
	}
	return deps.Me(r.Context(), id.UserID, id.Email)
}
