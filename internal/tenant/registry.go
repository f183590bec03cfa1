// ABOUTME: System Registry operations: idempotent tenant registration and end-to-end init
// ABOUTME: Unexpected registration failures are logged and counted, never returned

package tenant

import (
	"context"

	"github.com/2389/benotes/internal/store"
)

// Register records the tenant in the system store. Registering an existing id
// is a no-op that keeps the first name. An insert failure is logged and
// swallowed so callers such as login are never blocked by registry
// bookkeeping; only an invalid id or an unopenable system store is returned.
func (r *Router) Register(ctx context.Context, id, name string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	sys, err := r.System(ctx)
	if err != nil {
		return err
	}

	inserted, err := sys.InsertTenant(ctx, id, name)
	switch {
	case err != nil:
		r.metrics.TenantRegistrations.WithLabelValues("error").Inc()
		r.logger.Error("failed to register tenant", "tenant", id, "error", err)
	case inserted:
		r.metrics.TenantRegistrations.WithLabelValues("created").Inc()
		r.logger.Info("tenant registered", "tenant", id, "name", name)
	default:
		r.metrics.TenantRegistrations.WithLabelValues("existing").Inc()
	}
	return nil
}

// Init registers the tenant then returns its store. The two steps are not
// atomic; both are idempotent so a retry completes a partial init.
func (r *Router) Init(ctx context.Context, id, name string) (*store.TenantStore, error) {
	if err := r.Register(ctx, id, name); err != nil {
		return nil, err
	}
	return r.Store(ctx, id)
}

// Tenants lists registered tenants in registration order.
func (r *Router) Tenants(ctx context.Context) ([]*store.Tenant, error) {
	sys, err := r.System(ctx)
	if err != nil {
		return nil, err
	}
	return sys.ListTenants(ctx)
}
