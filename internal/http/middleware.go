package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pagecraft/internal/domain"
	"pagecraft/internal/service"
)

type ctxKey int

const userCtxKey ctxKey = iota

// UserFrom returns the user attached by RequireUser.
func UserFrom(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*domain.User)
	return u, ok && u != nil
}

func withUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// Authenticator resolves bearer tokens for protected routes.
type Authenticator struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewAuthenticator(auth service.AuthService, logger *zap.Logger) *Authenticator {
	return &Authenticator{auth: auth, logger: logger}
}

// RequireUser answers 401 when the token is missing or expired.
func (a *Authenticator) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := a.auth.Authenticate(r.Context(), bearerToken(r))
		if err != nil {
			writeError(w, a.logger, err)
			return
		}
		next(w, r.WithContext(withUser(r.Context(), u)))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LogRequests logs one line per request.
func LogRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip_address", clientIP(r)),
		)
	})
}
