// ABOUTME: Per-tenant SQLite store holding pages, cards and tags
// ABOUTME: Bootstraps the core schema plus plugin-provided table fragments on open

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// CoreTables is the schema every tenant store starts from.
var CoreTables = []Table{
	{
		Name: "pages",
		DDL: `
			CREATE TABLE IF NOT EXISTS pages (
				id         TEXT PRIMARY KEY,
				title      TEXT NOT NULL,
				slug       TEXT NOT NULL,
				content    TEXT NOT NULL DEFAULT '',
				parent_id  TEXT REFERENCES pages(id) ON DELETE SET NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_pages_slug ON pages(slug);
			CREATE INDEX IF NOT EXISTS idx_pages_parent ON pages(parent_id);
		`,
	},
	{
		Name: "cards",
		DDL: `
			CREATE TABLE IF NOT EXISTS cards (
				id         TEXT PRIMARY KEY,
				page_id    TEXT REFERENCES pages(id) ON DELETE CASCADE,
				type       TEXT NOT NULL,
				plugin     TEXT NOT NULL,
				content    TEXT NOT NULL DEFAULT '{}',
				metadata   TEXT NOT NULL DEFAULT '{}',
				created_at TEXT NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_cards_page ON cards(page_id);
			CREATE INDEX IF NOT EXISTS idx_cards_plugin ON cards(plugin);
		`,
	},
	{
		Name: "tags",
		DDL: `
			CREATE TABLE IF NOT EXISTS tags (
				id    TEXT PRIMARY KEY,
				name  TEXT NOT NULL UNIQUE,
				color TEXT
			);
		`,
	},
}

// TenantStore is a handle to one tenant's isolated database file.
type TenantStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenTenantStore opens (or creates) the tenant database at path and applies
// the core schema followed by every extra fragment, in order.
// Safe to call on an existing file.
func OpenTenantStore(ctx context.Context, path string, extra ...Table) (*TenantStore, error) {
	logger := slog.Default().With("component", "tenant_store")

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(CoreTables)+len(extra))
	tables = append(tables, CoreTables...)
	tables = append(tables, extra...)

	if err := applySchema(ctx, db, tables); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("tenant store opened", "path", path, "tables", len(tables))
	return &TenantStore{db: db, path: path, logger: logger}, nil
}

// DB exposes the raw handle so plugins can query the tables they own.
func (s *TenantStore) DB() *sql.DB {
	return s.db
}

// Path returns the database file location.
func (s *TenantStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *TenantStore) Close() error {
	s.logger.Info("closing tenant store", "path", s.path)
	return s.db.Close()
}
