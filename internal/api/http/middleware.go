package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/logger"
	"github.com/DaniyalGhauri/DriveSmart/internal/security"
	"github.com/DaniyalGhauri/DriveSmart/internal/service"
)

type contextKey string

const principalKey contextKey = "principal"

// principalFrom returns the authenticated principal stored by the auth
// middleware. The bool is false on unauthenticated routes.
func principalFrom(ctx context.Context) (security.Principal, bool) {
	p, ok := ctx.Value(principalKey).(security.Principal)
	return p, ok
}

// AuthMiddleware resolves the bearer token into a request-scoped principal.
// Local JWTs are tried first; when a Firebase verifier is configured, tokens
// that fail local validation fall through to provider verification.
type AuthMiddleware struct {
	tokenManager security.TokenManager
	firebase     *security.FirebaseVerifier
	authService  service.AuthService
}

func NewAuthMiddleware(tokenManager security.TokenManager, firebase *security.FirebaseVerifier, authService service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tokenManager, firebase: firebase, authService: authService}
}

func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
			return
		}

		p, err := m.resolve(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) resolve(ctx context.Context, token string) (security.Principal, error) {
	claims, err := m.tokenManager.ValidateToken(token)
	if err == nil {
		if claims.Type != security.TokenTypeAccess {
			return security.Principal{}, security.ErrWrongTokenType
		}
		return m.authService.ResolvePrincipal(ctx, claims.UserID)
	}

	if m.firebase != nil {
		_, email, fbErr := m.firebase.VerifyIDToken(ctx, token)
		if fbErr == nil && email != "" {
			return m.authService.ResolveFirebasePrincipal(ctx, email)
		}
	}
	return security.Principal{}, err
}

// RequireRole wraps Require and additionally rejects principals outside the
// allowed roles before the handler runs.
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return m.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := principalFrom(r.Context())
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, domain.ErrPermissionDenied)
		}))
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// LoggingMiddleware records method, path, status and latency for every call.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("Request handled",
			"method", r.Method, "path", r.URL.Path,
			"status", rec.status, "duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
