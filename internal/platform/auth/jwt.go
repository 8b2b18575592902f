// Package auth verifies bearer tokens issued by the external identity
// service and exposes the requesting actor through the request context.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

type ctxKeyUserID struct{}
type ctxKeyGroups struct{}

func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxKeyUserID{}).(string)
	return v, ok
}

// WithUserID injects a user id into context. Useful for testing.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, uid)
}

func GroupsFromContext(ctx context.Context) ([]string, bool) {
	v, ok := ctx.Value(ctxKeyGroups{}).([]string)
	return v, ok
}

// WithGroups injects group memberships into context. Useful for testing.
func WithGroups(ctx context.Context, groups []string) context.Context {
	return context.WithValue(ctx, ctxKeyGroups{}, groups)
}

type Claims struct {
	jwt.RegisteredClaims
	Groups []string `json:"groups,omitempty"`
}

type JWTVerifier struct {
	Secret []byte
}

func (v JWTVerifier) Parse(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return v.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireUser validates the Bearer token and injects the actor into context.
// Requests without a valid token are rejected with 401.
func RequireUser(verifier JWTVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := contextFromHeader(r, verifier)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalUser injects the actor into context when a Bearer token is present
// and lets anonymous requests through untouched. A malformed token is still
// rejected rather than silently downgraded to anonymous.
func OptionalUser(verifier JWTVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, err := contextFromHeader(r, verifier)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextFromHeader(r *http.Request, verifier JWTVerifier) (context.Context, error) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if authz == "" {
		return nil, errors.New("missing authorization header")
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("unsupported authorization scheme")
	}
	claims, err := verifier.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token has no subject")
	}
	ctx := context.WithValue(r.Context(), ctxKeyUserID{}, claims.Subject)
	if len(claims.Groups) > 0 {
		ctx = context.WithValue(ctx, ctxKeyGroups{}, claims.Groups)
	}
	return ctx, nil
}
