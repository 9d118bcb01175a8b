package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

const hostKey contextKey = "requestHost"

// ContextWithHost returns a context carrying the request host.
func ContextWithHost(ctx context.Context, host string) context.Context {
	return context.WithValue(ctx, hostKey, host)
}

// HostFromContext extracts the request host stored by HostGuard.
func HostFromContext(ctx context.Context) string {
	host, _ := ctx.Value(hostKey).(string)

	return host
}

// HostGuard stores the request host in the context and hides the API from
// secondary shortening domains. API routes answer only on the base host.
func HostGuard(api huma.API, baseHost string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		host := ctx.Host()

		if strings.HasPrefix(ctx.URL().Path, "/api/") && host != baseHost {
			_ = huma.WriteErr(api, ctx, http.StatusNotFound, "Not found.")

			return
		}

		ctx = huma.WithContext(ctx, ContextWithHost(ctx.Context(), host))

		next(ctx)
	}
}
