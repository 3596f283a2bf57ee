package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 7 * 24 * time.Hour

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// NewToken mints a signed HS256 token for the user.
func NewToken(userID primitive.ObjectID, secret string) (string, error) {
	claims := &Claims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Auth gates protected routes. A missing token is 401; an invalid or
// expired one is 403.
func Auth(jwtSecret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, status, msg := identify(r, jwtSecret)
			if status != 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				w.Write([]byte(`{"message":"` + msg + `"}`))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

func identify(r *http.Request, jwtSecret string) (primitive.ObjectID, int, string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return primitive.NilObjectID, http.StatusUnauthorized, "Access token required"
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return primitive.NilObjectID, http.StatusUnauthorized, "Access token required"
	}
	token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, http.StatusForbidden, "Invalid or expired token"
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return primitive.NilObjectID, http.StatusForbidden, "Invalid or expired token"
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, http.StatusForbidden, "Invalid or expired token"
	}
	return userID, 0, ""
}

func UserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	id, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return id, ok
}
