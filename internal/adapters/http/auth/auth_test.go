package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/birdiedeals/birdie/pkg/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func validClaims(sub string) Claims {
	now := time.Now()
	return Claims{
		Email: "golfer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestVerifier(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given an empty secret", t, func() {
		_, err := NewVerifier("")
		So(err, ShouldEqual, ErrMissingSecret)
	})

	Convey("Given a verifier", t, func() {
		v, err := NewVerifier(testSecret)
		So(err, ShouldBeNil)

		Convey("A valid token yields the identity", func() {
			id, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("u1")))
			So(err, ShouldBeNil)
			So(id, ShouldResemble, Identity{UserID: "u1", Email: "golfer@example.com"})
		})

		Convey("A token signed with another secret is rejected", func() {
			_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte("other-secret"), validClaims("u1")))
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("An expired token is rejected", func() {
			c := validClaims("u1")
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
			_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
			So(errors.Is(err, jwt.ErrTokenExpired), ShouldBeTrue)
		})

		Convey("A token without expiry is rejected", func() {
			c := validClaims("u1")
			c.ExpiresAt = nil
			_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("A token without subject is rejected", func() {
			_, err := v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("")))
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Another HMAC algorithm is rejected", func() {
			_, err := v.Verify(sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims("u1")))
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})

		Convey("Garbage is rejected", func() {
			_, err := v.Verify("not.a.token")
			So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)
		})
	})

	Convey("Given a verifier requiring an issuer", t, func() {
		v, err := NewVerifier(testSecret, WithIssuer("birdie-auth"))
		So(err, ShouldBeNil)

		c := validClaims("u1")
		_, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
		So(errors.Is(err, ErrInvalidToken), ShouldBeTrue)

		c.Issuer = "birdie-auth"
		_, err = v.Verify(sign(t, jwt.SigningMethodHS256, []byte(testSecret), c))
		So(err, ShouldBeNil)
	})
}

func TestMiddleware(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("logger init: %v", err)
	}

	Convey("Given a protected handler", t, func() {
		v, err := NewVerifier(testSecret)
		So(err, ShouldBeNil)

		var seen Identity
		h := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = FromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}))

		Convey("A request without a token gets 401", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			So(w.Body.String(), ShouldContainSubstring, "Missing token")
			So(w.Header().Get("WWW-Authenticate"), ShouldEqual, "Bearer")
		})

		Convey("A request with a bad token gets 401", func() {
			r := httptest.NewRequest(http.MethodGet, "/api/me", http.NoBody)
			r.Header.Set("Authorization", "Bearer nope")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			So(w.Code, ShouldEqual, http.StatusUnauthorized)
			So(w.Body.String(), ShouldContainSubstring, "Invalid token")
		})

		Convey("A request with a valid token reaches the handler", func() {
			r := httptest.NewRequest(http.MethodGet, "/api/me", http.NoBody)
			r.Header.Set("Authorization", "bearer "+sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims("u7")))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			So(w.Code, ShouldEqual, http.StatusNoContent)
			So(seen.UserID, ShouldEqual, "u7")
		})
	})
}
