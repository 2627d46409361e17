package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/blog-api/internal/metrics"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type key string

const UserIDKey key = "user_id"

// MsgInvalidUser is the single 401 message for a missing, malformed, expired or orphaned token.
const MsgInvalidUser = "user not found, token might be invalid"

// TokenVerifier resolves a bearer token to the user id it was issued for.
type TokenVerifier interface {
	Verify(token string) (int, error)
}

// UserChecker reports whether a user id still resolves to a stored user.
type UserChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

// RequireUser verifies the bearer token, then re-checks that its subject still exists.
// On success the user id is stored in the request context (see GetUserID).
func RequireUser(tokens TokenVerifier, users UserChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := bearerToken(r)
			if !ok {
				reject(w, r, "missing bearer token")
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				reject(w, r, "token rejected")
				return
			}

			exists, err := users.Exists(r.Context(), userID)
			if err != nil {
				slog.Error("auth: user lookup failed",
					"request_id", chimw.GetReqID(r.Context()),
					"user_id", userID,
					"err", err)
				writeMsg(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if !exists {
				reject(w, r, "token subject no longer exists")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the id stored by RequireUser.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(UserIDKey).(int)
	return id, ok
}

// WithUserID returns ctx carrying userID, as RequireUser would.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(w http.ResponseWriter, r *http.Request, reason string) {
	metrics.IncAuthFailure("token")
	slog.Info("auth: rejected request",
		"request_id", chimw.GetReqID(r.Context()),
		"path", r.URL.Path,
		"reason", reason)
	writeMsg(w, http.StatusUnauthorized, MsgInvalidUser)
}
