package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/birdiedeals/birdie/internal/domain/model"
)

// UserDependencies defines the operations behind the user endpoints.
type UserDependencies interface {
	Me(ctx context.Context, userID, email string) (model.User, error)
	UpdateProfile(ctx context.Context, u model.User) (model.User, error)
}

// profileRequest mirrors the OpenAPI schema for POST /api/profile.
type profileRequest struct {
	Profile model.Profile `json:"profile"`
}

type userResponse struct {
	User model.User `json:"user"`
}

// UsersHandler handles profile reads and writes for the caller.
type UsersHandler struct {
	deps UserDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// HandleMe handles GET /api/me.
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := currentUser(r, h.deps)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, userResponse{User: u})
}

// HandleUpdateProfile handles POST /api/profile. The submitted profile
// replaces the stored one.
func (h *UsersHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := readJSON(w, r, &req); err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	u, err := currentUser(r, h.deps)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}

	u.Profile = req.Profile
	saved, err := h.deps.UpdateProfile(r.Context(), u)
	if err != nil {
		writeFailure(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, userResponse{User: saved})
}

// normalize lower-cases enumerated values golfers may type in any case.
// Clubs without a usage are stored as primary.
func (req *profileRequest) normalize() {
	p := &req.Profile
	p.BudgetSensitivity = model.BudgetSensitivity(strings.ToLower(strings.TrimSpace(string(p.BudgetSensitivity))))
	for i := range p.Clubs {
		c := &p.Clubs[i]
		c.Usage = model.ClubUsage(strings.ToLower(strings.TrimSpace(string(c.Usage))))
		c.Usage = c.EffectiveUsage()
	}
}
