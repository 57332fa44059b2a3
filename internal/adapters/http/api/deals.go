package api

import (
	"context"
	"net/http"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// DealDependencies defines the operations behind the deal endpoints.
type DealDependencies interface {
	UserDependencies
	Featured(ctx context.Context) []model.Deal
	Recommend(ctx context.Context, u model.User) model.Recommendation
	TrackDealView(ctx context.Context, u model.User, dealID string) bool
	TrackDealClick(ctx context.Context, u model.User, dealID string) (string, bool)
}

// dealRequest mirrors the OpenAPI schema for POST /api/deals/view and /click.
type dealRequest struct {
	DealID string `json:"dealId" validate:"required"`
}

type featuredResponse struct {
	Deals []model.Deal `json:"deals"`
}

type viewResponse struct {
	OK bool `json:"ok"`
}

type clickResponse struct {
	OK  bool    `json:"ok"`
	URL *string `json:"url"`
}

// DealsHandler handles deal listing, recommendation and engagement requests.
type DealsHandler struct {
	deps DealDependencies
}

// NewDealsHandler creates a new deals handler.
func NewDealsHandler(deps DealDependencies) *DealsHandler {
	return &DealsHandler{deps: deps}
}

// HandleFeatured handles GET /api/deals/featured.
func (h *DealsHandler) HandleFeatured(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, featuredResponse{Deals: h.deps.Featured(r.Context())})
}

// HandleSuggested handles GET /api/deals/suggested.
func (h *DealsHandler) HandleSuggested(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r, h.deps)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, h.deps.Recommend(r.Context(), u))
}

// HandleView handles POST /api/deals/view. Unknown deal ids are acknowledged
// without tracking.
func (h *DealsHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	u, req, ok := h.engagement(w, r)
	if !ok {
		return
	}
	h.deps.TrackDealView(r.Context(), u, req.DealID)
	writeJSON(r.Context(), w, http.StatusOK, viewResponse{OK: true})
}

// HandleClick handles POST /api/deals/click and returns the retailer URL,
// or null for an unknown deal.
func (h *DealsHandler) HandleClick(w http.ResponseWriter, r *http.Request) {
	u, req, ok := h.engagement(w, r)
	if !ok {
		return
	}
	resp := clickResponse{OK: true}
	if url, found := h.deps.TrackDealClick(r.Context(), u, req.DealID); found {
		resp.URL = &url
	}
	writeJSON(r.Context(), w, http.StatusOK, resp)
}

func (h *DealsHandler) engagement(w http.ResponseWriter, r *http.Request) (model.User, dealRequest, bool) {
	var req dealRequest
	if err := readJSON(w, r, &req); err != nil {
		writeFailure(r.Context(), w, err)
		return model.User{}, req, false
	}
	u, err := currentUser(r, h.deps)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return model.User{}, req, false
	}
	return u, req, true
}
