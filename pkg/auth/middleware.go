package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/corneanet/notification-relayer/pkg/app/errors"
	apphttp "github.com/corneanet/notification-relayer/pkg/app/http"
)

// Middleware rejects requests without a valid bearer token and stores the
// caller's identity in the request context.
func Middleware(v *JWTValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(nil, "missing bearer token"))
				return
			}

			claims, err := v.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("Rejected API token", zap.Error(err))
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, "invalid or expired token"))
				return
			}

			userID, _ := claims.UserID()
			ctx := WithAuthInfo(r.Context(), &AuthInfo{UserID: userID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows the request through only for callers holding one of roles
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(nil, "missing bearer token"))
				return
			}
			if !HasRole(role, roles...) {
				apphttp.DefaultErrorHandler(w, apperrors.ForbiddenError(nil, "insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
