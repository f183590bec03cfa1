// Package tenant routes requests to per-tenant SQLite stores.
//
// # Layout
//
// Everything lives under one data root:
//
//	<root>/system/system.db          tenant and user registry
//	<root>/tenants/<id>/db.sqlite    one store per tenant
//
// Tenant IDs are validated against an allow-list before any path is built,
// so an ID can never escape the tenants directory.
//
// # Lifecycle
//
// A Router is constructed once at startup and closed at shutdown:
//
//	router := tenant.New(tenant.Options{
//		Root:    cfg.Data.Root,
//		Schema:  registry.Schema(),
//		Logger:  logger,
//		Metrics: m,
//	})
//	defer router.Close()
//
// Store opens a tenant on first use and caches the handle. Init is the
// end-to-end entry point: it registers the tenant in the system store and
// then returns its store. Reset is an operator escape hatch that deletes a
// tenant's data file.
package tenant
