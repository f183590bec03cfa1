// ABOUTME: Plugin descriptor types: identity, owned tables, card types, editor nodes, routes
// ABOUTME: Tables are exposed through typed accessors instead of an untyped schema bag

package plugins

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/2389/benotes/internal/store"
)

// StoreResolver returns the tenant store for the identity carried by ctx.
// Plugin routes use it to reach the caller's data.
type StoreResolver func(ctx context.Context) (*store.TenantStore, error)

// RouteHook mounts a plugin's HTTP routes on a router scoped to
// /api/plugins/{id}.
type RouteHook func(r chi.Router, resolve StoreResolver)

// NodeType declares an editor node the plugin renders. The core persists the
// listed attributes verbatim inside page content and never interprets them.
type NodeType struct {
	Name  string   `json:"name"`
	Attrs []string `json:"attrs"`
}

// Plugin describes a statically registered plugin.
type Plugin struct {
	ID          string
	Name        string
	Description string

	// Tables are merged into every tenant store's bootstrap.
	Tables []store.Table

	// CardTypes lists the namespaced card types this plugin owns ("id:kind").
	CardTypes []string

	Nodes  []NodeType
	Routes RouteHook
}

// Table returns the named table owned by this plugin.
func (p *Plugin) Table(name string) (store.Table, bool) {
	for _, t := range p.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return store.Table{}, false
}

// OwnsCardType reports whether typ is one of the plugin's declared card types.
func (p *Plugin) OwnsCardType(typ string) bool {
	for _, ct := range p.CardTypes {
		if ct == typ {
			return true
		}
	}
	return false
}
