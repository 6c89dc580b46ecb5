package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Dosada05/swiss-tournament-ui/page"
	"github.com/Dosada05/swiss-tournament-ui/sessions"
)

const (
	SessionCookieName = "swiss_session"
	sessionCookieTTL  = 30 * 24 * time.Hour
	sessionIssuer     = "swiss-tournament-ui"
)

type contextKey string

const pageContextKey contextKey = "page"

var ErrInvalidSessionToken = errors.New("invalid session token")

// SessionCodec signs session ids into cookie values (HS256 JWT) so a browser
// cannot pick another session's id.
type SessionCodec struct {
	secret []byte
	now    func() time.Time
}

func NewSessionCodec(secret []byte) *SessionCodec {
	return &SessionCodec{secret: secret, now: time.Now}
}

func (c *SessionCodec) Encode(sessionID string) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionCookieTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (c *SessionCodec) Decode(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}
	if claims.Issuer != sessionIssuer || claims.Subject == "" {
		return "", ErrInvalidSessionToken
	}
	return claims.Subject, nil
}

// Session attaches the browser's Page to the request context, starting a new
// session (and setting the cookie) when the cookie is missing, invalid or expired.
func Session(store *sessions.Store, codec *SessionCodec, secureCookies bool, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID string
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				id, err := codec.Decode(cookie.Value)
				if err != nil {
					logger.Debug("rejecting session cookie", slog.Any("error", err))
				} else {
					sessionID = id
				}
			}

			id, p, created := store.GetOrCreate(sessionID)
			if created {
				value, err := codec.Encode(id)
				if err != nil {
					logger.Error("failed to encode session cookie", slog.Any("error", err))
					http.Error(w, "the server encountered a problem and could not process your request", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    value,
					Path:     "/",
					MaxAge:   int(sessionCookieTTL.Seconds()),
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithPage(r.Context(), p)))
		})
	}
}

func WithPage(ctx context.Context, p *page.Page) context.Context {
	return context.WithValue(ctx, pageContextKey, p)
}

func PageFromContext(ctx context.Context) (*page.Page, bool) {
	p, ok := ctx.Value(pageContextKey).(*page.Page)
	return p, ok && p != nil
}
