// ABOUTME: Thread-safe, ordered registry of statically declared plugins.
// ABOUTME: Owns collision checks and merges plugin tables into one schema list.

package plugins

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/2389/benotes/internal/store"
)

// ErrPluginAlreadyRegistered indicates a plugin with the same ID is already registered.
var ErrPluginAlreadyRegistered = errors.New("plugin already registered")

// ErrPluginNotFound indicates the specified plugin was not found.
var ErrPluginNotFound = errors.New("plugin not found")

// ErrTableCollision indicates a table name is already owned by the core or another plugin.
var ErrTableCollision = errors.New("table name collision")

// ErrInvalidPlugin indicates a descriptor is missing required fields or is malformed.
var ErrInvalidPlugin = errors.New("invalid plugin")

// ErrUnknownCardType indicates a card type that its plugin does not declare.
var ErrUnknownCardType = errors.New("unknown card type")

// Registry maintains the registered plugins in registration order.
type Registry struct {
	mu     sync.RWMutex
	order  []*Plugin
	byID   map[string]*Plugin
	tables map[string]string // table name -> owning plugin ID ("" for core)
	logger *slog.Logger
}

// NewRegistry creates a Registry and registers each plugin in order.
// A nil logger falls back to slog.Default.
func NewRegistry(logger *slog.Logger, plugins ...Plugin) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byID:   make(map[string]*Plugin),
		tables: make(map[string]string),
		logger: logger.With("component", "plugins"),
	}
	for _, t := range store.CoreTables {
		r.tables[t.Name] = ""
	}

	for _, p := range plugins {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register validates and stores a plugin.
// Returns ErrPluginAlreadyRegistered if the ID is taken.
// Returns ErrTableCollision if any table name is already owned.
func (r *Registry) Register(p Plugin) error {
	if p.ID == "" || strings.Contains(p.ID, ":") {
		return fmt.Errorf("%w: id %q", ErrInvalidPlugin, p.ID)
	}
	for _, ct := range p.CardTypes {
		if !strings.HasPrefix(ct, p.ID+":") || len(ct) == len(p.ID)+1 {
			return fmt.Errorf("%w: card type %q must be namespaced %q", ErrInvalidPlugin, ct, p.ID+":")
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("%w: %s", ErrPluginAlreadyRegistered, p.ID)
	}

	seen := make(map[string]struct{}, len(p.Tables))
	for _, t := range p.Tables {
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: table '%s' declared twice by '%s'", ErrTableCollision, t.Name, p.ID)
		}
		seen[t.Name] = struct{}{}
		if owner, exists := r.tables[t.Name]; exists {
			if owner == "" {
				owner = "core"
			}
			return fmt.Errorf("%w: table '%s' already owned by '%s'", ErrTableCollision, t.Name, owner)
		}
	}

	plugin := p
	for _, t := range plugin.Tables {
		r.tables[t.Name] = plugin.ID
	}
	r.byID[plugin.ID] = &plugin
	r.order = append(r.order, &plugin)

	r.logger.Info("plugin registered",
		"plugin_id", plugin.ID,
		"tables", len(plugin.Tables),
		"card_types", len(plugin.CardTypes),
		"total_plugins", len(r.order),
	)
	return nil
}

// Get retrieves a plugin by its ID.
func (r *Registry) Get(id string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	return p, ok
}

// All returns every plugin in registration order.
func (r *Registry) All() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Plugin, len(r.order))
	copy(out, r.order)
	return out
}

// Schema returns every plugin's tables, plugins in registration order and
// each plugin's tables in declaration order. This is the single point where
// plugin schema reaches tenant stores.
func (r *Registry) Schema() []store.Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tables []store.Table
	for _, p := range r.order {
		tables = append(tables, p.Tables...)
	}
	return tables
}

// ValidateCardType checks that pluginID is registered and declares typ.
func (r *Registry) ValidateCardType(pluginID, typ string) error {
	p, ok := r.Get(pluginID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPluginNotFound, pluginID)
	}
	if !p.OwnsCardType(typ) {
		return fmt.Errorf("%w: %q is not declared by plugin %q", ErrUnknownCardType, typ, pluginID)
	}
	return nil
}
