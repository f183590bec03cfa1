// Package plugins provides the static plugin registry.
//
// # Overview
//
// A plugin extends page content with typed blocks. Each plugin is a
// descriptor (Plugin) declaring:
//
//   - Tables: schema fragments created in every tenant store
//   - CardTypes: namespaced card types it owns, e.g. "chess:game"
//   - Nodes: editor node types whose attributes the core persists verbatim
//   - Routes: an optional hook mounting HTTP handlers under /api/plugins/{id}
//
// # Registration
//
// Plugins are registered once at startup from a hardcoded list (see
// internal/builtins). There is no discovery and no unload:
//
//	registry, err := plugins.NewRegistry(logger, builtins.All()...)
//
// Registration order is preserved by All and Schema.
//
// # Schema Merging
//
// Registry.Schema is the single merge point for plugin tables. The tenant
// router passes its result to store.OpenTenantStore so every tenant file
// carries every plugin's tables. Table names must be unique across the core
// schema and all plugins.
package plugins
