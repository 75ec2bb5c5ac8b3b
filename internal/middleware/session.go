package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const SessionCookieName = "docportal_session"

// Sessions identifies a browser so its displayed message survives the
// post/redirect/get round trip. It carries no user identity.
type Sessions struct {
	Secret []byte
	TTL    time.Duration
	Secure bool
}

func NewSessions(secret string, secure bool) *Sessions {
	return &Sessions{Secret: []byte(secret), TTL: 24 * time.Hour, Secure: secure}
}

// Issue signs a session token for sessionID.
func (s *Sessions) Issue(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": now.Add(s.TTL).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// Parse verifies tokenStr and returns its session ID.
func (s *Sessions) Parse(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid session claims")
	}

	sid, ok := claims["sid"].(string)
	if !ok {
		return "", errors.New("missing session id")
	}
	if _, err := uuid.Parse(sid); err != nil {
		return "", errors.New("invalid session id format")
	}
	return sid, nil
}

// Middleware attaches the session ID to the context, starting a new session
// when the cookie is missing, expired or forged.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			sid, _ = s.Parse(cookie.Value)
		}

		if sid == "" {
			sid = uuid.New().String()
			token, err := s.Issue(sid)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to start session", r)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    token,
				Path:     "/",
				MaxAge:   int(s.TTL.Seconds()),
				HttpOnly: true,
				Secure:   s.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session ID from request context
func GetSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(SessionIDKey).(string)
	return sid
}
