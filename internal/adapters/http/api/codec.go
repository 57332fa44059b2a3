package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/birdiedeals/birdie/internal/adapters/http/auth"
	"github.com/birdiedeals/birdie/pkg/logger"
)

const maxBodyBytes = 1 << 20

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // shared codec
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // caches struct metadata
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// normalizer is implemented by requests that canonicalise input before
// validation.
type normalizer interface {
	normalize()
}

// readJSON decodes the request body into dest and validates its struct tags.
func readJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON: %w", ErrBadRequest, err)
	}
	if n, ok := dest.(normalizer); ok {
		n.normalize()
	}
	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Get().Error(ctx, "failed to encode response", logger.Error(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(ctx, w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status code.
func writeFailure(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(ctx, w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		writeError(ctx, w, http.StatusUnauthorized, "unauthorized", err)
	default:
		logger.Get().Error(ctx, "request failed", logger.Error(err))
		writeError(ctx, w, http.StatusInternalServerError, "internal_error", nil)
	}
}
