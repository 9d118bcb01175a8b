package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shurlix/shurlix/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimiter returns a Huma middleware that limits requests per client on
// operations carrying a ratelimit.Limit in their metadata. Operations without
// metadata pass through untouched. Store failures fail open.
func RateLimiter(api huma.API, limiter *ratelimit.Limiter, logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op == nil {
			next(ctx)

			return
		}

		limit, ok := op.Metadata[ratelimit.MetadataKey].(ratelimit.Limit)
		if !ok {
			next(ctx)

			return
		}

		key := fmt.Sprintf("%s:%s:%d", clientKey(ctx), op.Path, limit.Window.Milliseconds())

		allowed, err := limiter.Allow(ctx.Context(), key, limit)
		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", op.Path), zap.Error(err))
			next(ctx)

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("path", op.Path),
				zap.String("method", ctx.Method()),
				zap.String("client_ip", clientIP(ctx)),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "Rate limit exceeded.")

			return
		}

		next(ctx)
	}
}

// clientKey generates a rate limiting key from the client IP and User-Agent.
func clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(clientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}

// clientIP extracts the client IP from the request, considering proxies.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	host := ctx.Host()

	ip, _, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}

	return ip
}
