// Package tenant resolves the partition a request operates on.
package tenant

import (
	"log/slog"
	"net/http"

	id "tally/pkg/domain"
	"tally/pkg/platform/httputil"
	"tally/pkg/requestcontext"
)

const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderActorID  = "X-Actor-ID"
)

// RequireTenant rejects requests without a valid X-Tenant-ID and stores the
// parsed tenant (and the optional X-Actor-ID) in the context.
func RequireTenant(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			tenantID, err := id.ParseTenantID(r.Header.Get(HeaderTenantID))
			if err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "rejected request without tenant",
						"request_id", requestcontext.RequestID(ctx),
						"path", r.URL.Path,
					)
				}
				httputil.WriteError(w, err)
				return
			}
			ctx = requestcontext.WithTenantID(ctx, tenantID)
			if actor := r.Header.Get(HeaderActorID); actor != "" {
				ctx = requestcontext.WithActorID(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
