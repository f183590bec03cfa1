// ABOUTME: Tenant Store Router: lazily opens and caches one SQLite store per tenant
// ABOUTME: Owns the data-root layout and merges plugin schema into every tenant bootstrap

package tenant

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/2389/benotes/internal/metrics"
	"github.com/2389/benotes/internal/store"
)

const (
	tenantsDir   = "tenants"
	tenantDBFile = "db.sqlite"
	systemDir    = "system"
	systemDBFile = "system.db"
)

// Options configures a Router.
type Options struct {
	// Root is the data directory holding system/ and tenants/.
	Root string

	// Schema holds plugin table fragments applied after the core tables
	// whenever a tenant store is opened.
	Schema []store.Table

	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Router hands out tenant stores keyed by tenant ID.
//
// Handles are cached for the life of the Router with no eviction, so memory
// and open file descriptors grow with the number of distinct tenants served.
// This suits deployments with a small tenant population.
type Router struct {
	root    string
	schema  []store.Table
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu     sync.Mutex
	stores map[string]*store.TenantStore

	sysMu  sync.Mutex
	system *store.SystemStore
}

// New creates a Router. Nothing is opened until first use.
func New(opts Options) *Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewNop()
	}
	return &Router{
		root:    opts.Root,
		schema:  opts.Schema,
		logger:  logger.With("component", "tenant_router"),
		metrics: m,
		stores:  make(map[string]*store.TenantStore),
	}
}

// Root returns the data directory.
func (r *Router) Root() string {
	return r.root
}

// StorePath returns where the tenant's database lives. The id must already
// be validated.
func (r *Router) StorePath(id string) string {
	return filepath.Join(r.root, tenantsDir, id, tenantDBFile)
}

// Store returns the tenant's store, opening and bootstrapping it on first
// use. Repeated calls with the same id return the same handle.
func (r *Router) Store(ctx context.Context, id string) (*store.TenantStore, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[id]; ok {
		return s, nil
	}

	s, err := store.OpenTenantStore(ctx, r.StorePath(id), r.schema...)
	if err != nil {
		return nil, fmt.Errorf("opening tenant store %s: %w", id, err)
	}
	r.stores[id] = s
	r.metrics.TenantStoreOpens.Inc()
	r.metrics.TenantStoresOpen.Set(float64(len(r.stores)))

	r.logger.Info("tenant store ready", "tenant", id, "cached", len(r.stores))
	return s, nil
}

// Reset closes and evicts the tenant's cached handle and deletes its database
// file along with the WAL sidecars. The next Store call recreates an empty
// store. There is no backup.
//
// The old handle is closed even if requests are still using it; those fail
// with "sql: database is closed" and surface as 500s. Reset is an operator
// escape hatch, so callers should expect that for requests in flight.
func (r *Router) Reset(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[id]; ok {
		if err := s.Close(); err != nil {
			r.logger.Warn("closing tenant store before reset", "tenant", id, "error", err)
		}
		delete(r.stores, id)
		r.metrics.TenantStoresOpen.Set(float64(len(r.stores)))
	}

	path := r.StorePath(id)
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}

	r.metrics.TenantStoreResets.Inc()
	r.logger.Warn("tenant store reset", "tenant", id, "path", path)
	return nil
}

// Len returns the number of cached tenant stores.
func (r *Router) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// System returns the system store, opening it on first use.
func (r *Router) System(ctx context.Context) (*store.SystemStore, error) {
	r.sysMu.Lock()
	defer r.sysMu.Unlock()

	if r.system != nil {
		return r.system, nil
	}

	s, err := store.OpenSystemStore(ctx, filepath.Join(r.root, systemDir, systemDBFile))
	if err != nil {
		return nil, fmt.Errorf("opening system store: %w", err)
	}
	r.system = s
	return s, nil
}

// Close closes every cached handle and the system store. The Router can be
// used again afterwards; stores reopen lazily.
func (r *Router) Close() error {
	var errs []error

	r.mu.Lock()
	for id, s := range r.stores {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing tenant %s: %w", id, err))
		}
		delete(r.stores, id)
	}
	r.metrics.TenantStoresOpen.Set(0)
	r.mu.Unlock()

	r.sysMu.Lock()
	if r.system != nil {
		if err := r.system.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing system store: %w", err))
		}
		r.system = nil
	}
	r.sysMu.Unlock()

	return errors.Join(errs...)
}
