package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL is how long a login token stays valid
const DefaultTokenTTL = 72 * time.Hour

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

type contextKey string

const userKey contextKey = "username"

// Claims identify the acting player
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Authenticator issues and verifies bearer tokens
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator creates an HS256 authenticator. A zero ttl uses DefaultTokenTTL.
func NewAuthenticator(secret string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for username
func (a *Authenticator) Issue(username string) (string, time.Time, error) {
	expires := a.now().Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(a.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify returns the username in a valid token
func (a *Authenticator) Verify(tokenStr string) (string, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKey
		}
		return a.secret, nil
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, keyFunc)
	if err != nil || !token.Valid {
		return "", errors.New("token is invalid or expired")
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Username == "" {
		return "", errors.New("token has no username")
	}
	return claims.Username, nil
}

// authenticated rejects requests without a valid bearer token and stores
// the username in the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if tokenStr == "" {
			respondError(w, http.StatusUnauthorized, "Login required")
			return
		}

		username, err := s.auth.Verify(tokenStr)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Your token is invalid or expired. Please log in again.")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, username)
		next(w, r.WithContext(ctx))
	}
}

// userFrom returns the authenticated username
func userFrom(ctx context.Context) string {
	username, _ := ctx.Value(userKey).(string)
	return username
}

func validUsername(name string) bool {
	return usernamePattern.MatchString(name)
}
