package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sbilibin2017/gw-shoppinglist-api/internal/logger"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Tokener resolves a user id from a token string.
type Tokener interface {
	GetUserID(ctx context.Context, tokenString string) (int64, error)
}

// UserGetter looks up a user by username for the password fallback.
type UserGetter interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
}

// AuthMiddleware returns the authentication gate for protected routes.
//
// Credentials arrive as HTTP Basic base64(identifier:secret). The identifier
// is tried as a signed token first; expired and tampered tokens fail alike
// and fall through to treating the pair as username+password against the
// stored hash. On success the resolved user id is attached to the request
// context; otherwise the request is rejected with 401 before the handler runs.
func AuthMiddleware(tokener Tokener, users UserGetter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			identifier, secret, ok := r.BasicAuth()
			if !ok {
				logger.Log.Errorw("authorization failed", "err", "missing or malformed Basic credentials")
				writeUnauthorized(w)
				return
			}

			userID, err := tokener.GetUserID(ctx, identifier)
			if err != nil {
				// Not a valid token; try the pair as username+password.
				userID, err = authenticatePassword(ctx, users, identifier, secret)
				if err != nil {
					logger.Log.Errorw("authorization failed", "err", err)
					writeUnauthorized(w)
					return
				}
			}

			ctx = SetUserIDToContext(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticatePassword(ctx context.Context, users UserGetter, username, password string) (int64, error) {
	user, err := users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, bcrypt.ErrMismatchedHashAndPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, err
	}
	return user.ID, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var userIDKey = contextKey{}

// SetUserIDToContext stores the authenticated user id in the context.
func SetUserIDToContext(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the authenticated user id from the context.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}
