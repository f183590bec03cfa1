// Package store provides SQLite persistence for benotes.
//
// # Architecture
//
// There are two kinds of database file:
//
//   - SystemStore: one global file holding the tenant registry and users
//   - TenantStore: one file per tenant holding pages, cards and tags
//
// Tenant files are physically separate, so a page can never reference a
// page in another tenant. Routing a tenant ID to its file is the job of
// internal/tenant; this package only knows how to open a path.
//
// # Schema
//
// Schemas are expressed as ordered Table fragments whose DDL is idempotent
// (CREATE TABLE IF NOT EXISTS). A TenantStore applies CoreTables and then
// any extra fragments supplied by the caller, which is how plugin-owned
// tables reach every tenant file. There are no versioned migrations.
//
// # SQLite Configuration
//
// Every connection is opened with:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//	PRAGMA busy_timeout=5000;
//
// Foreign keys matter: deleting a page cascades to its cards.
//
// # Error Handling
//
//   - ErrNotFound: requested entity does not exist
//   - ErrDuplicate: a unique constraint rejected the write
//   - ErrInvalidInput: a required field is missing or malformed
//   - ErrInvalidReference: a foreign key names a missing row
//
// Open failures are returned wrapped and are not retried.
package store
