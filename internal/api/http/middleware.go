package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"

	"gearroom-backend/internal/domain"
	"gearroom-backend/internal/logger"
)

// TokenVerifier abstracts Firebase ID token verification so handler tests
// can substitute a fake.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type ctxKey int

const identityKey ctxKey = iota

// Identity is the caller resolved from a verified ID token.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}

// IdentityFrom returns the caller identity stored by AuthMiddleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// AuthMiddleware verifies the Bearer token on every request and stores the
// resolved identity in the request context. Admin status comes from the
// "admin" custom claim.
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				writeError(w, domain.E(domain.KindPermissionDenied, "http.auth", "missing bearer token"))
				return
			}
			token, err := verifier.VerifyIDToken(r.Context(), raw)
			if err != nil {
				writeError(w, domain.WrapE(domain.KindPermissionDenied, "http.auth", "invalid token", err))
				return
			}
			id := Identity{UserID: token.UID}
			if email, ok := token.Claims["email"].(string); ok {
				id.Email = email
			}
			if admin, ok := token.Claims["admin"].(bool); ok {
				id.IsAdmin = admin
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

// RequireAdmin rejects non-admin callers before the handler runs.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok || !id.IsAdmin {
			writeError(w, domain.E(domain.KindPermissionDenied, "http.auth", "admin access required"))
			return
		}
		next(w, r)
	}
}

// LoggingMiddleware records method, path, status and latency per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
