package testutil

import (
	"context"
	"net/http"
	"time"

	id "tally/pkg/domain"
	"tally/pkg/requestcontext"
)

// WithTenant sets the tenant header the way an upstream gateway would.
func WithTenant(req *http.Request, tenant id.TenantID) *http.Request {
	req.Header.Set("X-Tenant-ID", tenant.String())
	return req
}

// TenantContext returns a context scoped to tenant with a fixed request time,
// for service tests that skip the HTTP middleware chain.
func TenantContext(tenant id.TenantID, now time.Time) context.Context {
	ctx := requestcontext.WithTenantID(context.Background(), tenant)
	ctx = requestcontext.WithRequestID(ctx, "test-request")
	return requestcontext.WithTime(ctx, now)
}
