package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/logger"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

type ctxKey int

const userKey ctxKey = iota

// UserLookup loads the account a verified token points at.
type UserLookup func(ctx context.Context, id int64) (*models.User, error)

func PoolUserLookup(pool *pgxpool.Pool) UserLookup {
	return func(ctx context.Context, id int64) (*models.User, error) {
		return db.GetUserByID(ctx, pool, id)
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}

// UserIDFromContext returns 0 outside authenticated routes.
func UserIDFromContext(ctx context.Context) int64 {
	if user, ok := UserFromContext(ctx); ok {
		return user.ID
	}
	return 0
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// JWTAuthMiddleware rejects requests without a token (401), with an invalid
// token (403) or whose user no longer exists (401).
func JWTAuthMiddleware(secret string, lookup UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			tokenString := bearerToken(r)
			if tokenString == "" {
				util.WriteError(w, http.StatusUnauthorized, "missing token")
				return
			}

			userID, err := util.ParseToken(secret, tokenString)
			if err != nil {
				log.Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected invalid token")
				util.WriteError(w, http.StatusForbidden, "invalid token")
				return
			}

			user, err := lookup(r.Context(), userID)
			if errors.Is(err, db.ErrNotFound) {
				util.WriteError(w, http.StatusUnauthorized, "user not found")
				return
			}
			if err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user for token")
				util.WriteError(w, http.StatusInternalServerError, "authentication failed")
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = logger.WithContext(ctx, log.With().Int64("user_id", user.ID).Logger())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole only lets through users holding one of roles. It must run after
// JWTAuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				util.WriteError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if !slices.Contains(roles, user.Role) {
				util.WriteError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
