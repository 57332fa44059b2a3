// Package auth verifies HS256 bearer tokens minted by the identity service
// and carries the caller's identity through the request context.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/birdiedeals/birdie/pkg/logger"
)

// Claims is the token payload. The subject is the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Email  string
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the middleware, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}

// Verifier validates bearer tokens.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
	log    logger.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithIssuer requires the iss claim to match.
func WithIssuer(iss string) Option {
	return func(v *Verifier) { v.issuer = iss }
}

// WithLeeway tolerates clock skew on exp and nbf.
func WithLeeway(d time.Duration) Option {
	return func(v *Verifier) {
		if d >= 0 {
			v.leeway = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.log = l
		}
	}
}

// NewVerifier creates a verifier for tokens signed with secret.
func NewVerifier(secret string, opts ...Option) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	v := &Verifier{secret: []byte(secret)}
	for _, opt := range opts {
		opt(v)
	}
	if v.log == nil {
		v.log = logger.Get().Named("auth")
	}
	return v, nil
}

// Verify checks the signature, algorithm and expiry of token and returns
// the identity it names.
func (v *Verifier) Verify(token string) (Identity, error) {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, parserOpts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// Middleware rejects requests without a valid bearer token with 401 and
// stores the identity in the request context otherwise.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err == nil {
			var id Identity
			id, err = v.Verify(token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
				return
			}
		}

		v.log.Debug(r.Context(), "request rejected",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		msg := "Invalid token"
		if errors.Is(err, ErrMissingToken) {
			msg = "Missing token"
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("WWW-Authenticate", "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"code": "unauthorized", "message": msg})
	})
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}
