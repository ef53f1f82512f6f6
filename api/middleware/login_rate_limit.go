package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/bookaro-backend/api/responses"
	"github.com/angelmondragon/bookaro-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/bookaro-backend/pkg/errors"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
)

const maxLoginBody = 16 << 10

type attemptCounter interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// loginBucket is one fixed-window counter keyed off the request.
type loginBucket struct {
	scope string
	limit int64
	key   func(r *http.Request, email string) string
}

// LoginRateLimit counts login attempts per client IP and per hashed email in
// fixed windows. Exceeding either returns 429 with Retry-After; a counter
// failure returns 503 rather than letting the attempt through.
func LoginRateLimit(cfg config.AuthRateLimitConfig, store attemptCounter, logg *logger.Logger) func(http.Handler) http.Handler {
	var buckets []loginBucket
	if cfg.LoginIPLimit > 0 {
		buckets = append(buckets, loginBucket{"ip", int64(cfg.LoginIPLimit), func(r *http.Request, _ string) string {
			return clientIP(r)
		}})
	}
	if cfg.LoginEmailLimit > 0 {
		buckets = append(buckets, loginBucket{"email", int64(cfg.LoginEmailLimit), func(_ *http.Request, email string) string {
			if email == "" {
				return ""
			}
			sum := sha256.Sum256([]byte(email))
			return hex.EncodeToString(sum[:])
		}})
	}
	retryAfter := strconv.Itoa(int(cfg.LoginWindow.Round(time.Second).Seconds()))

	return func(next http.Handler) http.Handler {
		if store == nil || cfg.LoginWindow <= 0 || len(buckets) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBody))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			email := loginEmail(body)

			for _, b := range buckets {
				id := b.key(r, email)
				if id == "" {
					continue
				}
				count, err := store.IncrWithTTL(ctx, store.RateLimitKey("login:"+b.scope+":"+id), cfg.LoginWindow)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > b.limit {
					logg.Warn(logg.WithFields(ctx, map[string]any{
						"scope":    b.scope,
						"attempts": count,
						"limit":    b.limit,
					}), "login rate limit exceeded")
					w.Header().Set("Retry-After", retryAfter)
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many login attempts"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func loginEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(payload, &body) != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(body.Email))
}
