package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"

	"rozgaarsetu/internal/config"
	"rozgaarsetu/internal/domain"
	"rozgaarsetu/internal/models"
)

type ctxKey int

const actorKey ctxKey = iota

// ActorID returns the authenticated subject stored by JWTAuth, or "" for an
// unauthenticated request.
func ActorID(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey).(string); ok {
		return v
	}
	return ""
}

// JWTAuth validates bearer tokens and rate limits callers per subject.
// Tokens are issued elsewhere; the API only verifies the HS256 signature and
// the issuer claim.
type JWTAuth struct {
	cfg      config.AuthConfig
	rl       config.APIRateLimitConfig
	sessions domain.SessionRepository
	limiters sync.Map // map[string]*rate.Limiter
}

// NewJWTAuth builds the auth middleware. sessions may be nil, in which case
// rate limiting falls back to in-process limiters only.
func NewJWTAuth(cfg config.AuthConfig, rl config.APIRateLimitConfig, sessions domain.SessionRepository) *JWTAuth {
	return &JWTAuth{cfg: cfg, rl: rl, sessions: sessions}
}

var errRateLimited = fmt.Errorf("rate limit exceeded")

func (a *JWTAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := a.verify(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}

		if err := a.checkRateLimit(r.Context(), subject); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *JWTAuth) verify(r *http.Request) (string, error) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	}, jwt.WithIssuer(a.cfg.Issuer))
	if err != nil || !tok.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// checkRateLimit prefers the shared redis counter so the limit holds across
// instances; it falls back to a local token bucket when redis is unavailable.
func (a *JWTAuth) checkRateLimit(ctx context.Context, subject string) error {
	if a.rl.RPS <= 0 {
		return nil
	}

	if a.sessions != nil {
		allowed, err := a.sessions.CheckRateLimit(ctx, subject, models.RateLimitRequests, models.RateLimitWindow*time.Second)
		if err == nil {
			if !allowed {
				return errRateLimited
			}
			return nil
		}
	}

	if !a.getLimiter(subject).Allow() {
		return errRateLimited
	}
	return nil
}

func (a *JWTAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.rl.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.rl.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
