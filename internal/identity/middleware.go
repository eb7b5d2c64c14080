package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/subcore/company-service/internal/observability"
	"github.com/subcore/company-service/internal/platform/httpx"
)

// Verifier performs the upstream verification round-trip.
type Verifier interface {
	Verify(ctx context.Context, token string) ([]byte, error)
}

// UserSyncer mirrors freshly verified identities into local storage.
type UserSyncer interface {
	Sync(ctx context.Context, p *Payload) error
}

// GatewayConfig collects the gateway dependencies.
type GatewayConfig struct {
	Verifier Verifier
	Cache    TokenCache
	TTL      time.Duration
	Grants   RolePermissions
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Syncer   UserSyncer
}

// Gateway authenticates inbound requests: it extracts the bearer token,
// resolves the identity payload from cache or upstream, enforces account
// status and attaches the payload to the request context.
type Gateway struct {
	verifier Verifier
	cache    TokenCache
	ttl      time.Duration
	grants   RolePermissions
	logger   *slog.Logger
	metrics  *observability.Metrics
	syncer   UserSyncer
}

// NewGateway constructs a Gateway.
func NewGateway(cfg GatewayConfig) *Gateway {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	grants := cfg.Grants
	if grants == nil {
		grants = DefaultRolePermissions()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		verifier: cfg.Verifier,
		cache:    cfg.Cache,
		ttl:      ttl,
		grants:   grants,
		logger:   logger,
		metrics:  cfg.Metrics,
		syncer:   cfg.Syncer,
	}
}

// Middleware gates every request behind token verification.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := extractBearer(r.Header.Get("Authorization"))
		if !ok {
			httpx.Error(w, http.StatusUnauthorized, "no token provided", nil)
			return
		}

		payload, fromCache, err := g.resolve(r.Context(), token)
		if err != nil {
			g.reject(w, r, err)
			return
		}

		if !payload.Active() {
			g.record(observability.OutcomeInactive)
			httpx.Error(w, http.StatusForbidden, "User account is not active", nil)
			return
		}

		if fromCache {
			g.record(observability.OutcomeCacheHit)
		} else {
			g.record(observability.OutcomeVerified)
		}

		next.ServeHTTP(w, r.WithContext(ContextWithPayload(r.Context(), payload)))
	})
}

// resolve returns the identity payload for the token, preferring the
// cache. Fresh verifications are cached under the TTL and mirrored into
// the local user table best-effort.
func (g *Gateway) resolve(ctx context.Context, token string) (*Payload, bool, error) {
	key := CacheKey(token)

	if g.cache != nil {
		cached, hit, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("token cache read failed", slog.Any("error", err))
		} else if hit {
			return cached, true, nil
		}
	}

	body, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, false, err
	}

	payload, err := NormalizePayload(body, g.grants)
	if err != nil {
		g.logger.Warn("invalid identity payload", slog.String("token_hash", key))
		return nil, false, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, payload, g.ttl); err != nil {
			g.logger.Warn("token cache write failed", slog.Any("error", err))
		}
	}

	if g.syncer != nil {
		if err := g.syncer.Sync(ctx, payload); err != nil {
			g.logger.Warn("user sync failed", slog.String("user_id", payload.ID), slog.Any("error", err))
		}
	}

	return payload, false, nil
}

func (g *Gateway) reject(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUpstreamUnavailable):
		g.record(observability.OutcomeUpstreamError)
		g.logger.Error("token verification unreachable", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Error(w, http.StatusServiceUnavailable, "identity service unavailable", nil)
	default:
		g.record(observability.OutcomeRejected)
		g.logger.Warn("token verification rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Error(w, http.StatusUnauthorized, "invalid token", nil)
	}
}

func (g *Gateway) record(outcome string) {
	if g.metrics != nil {
		g.metrics.RecordVerification(outcome)
	}
}

// extractBearer parses an Authorization header of the form
// "Bearer <token>" with a case-insensitive scheme.
func extractBearer(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	const scheme = "Bearer "
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", false
	}
	return token, true
}
