// ABOUTME: Hardcoded registration table for built-in plugins
// ABOUTME: Order here is the order plugins appear in listings and schema bootstrap

package builtins

import "github.com/2389/benotes/internal/plugins"

// All returns every built-in plugin in registration order.
func All() []plugins.Plugin {
	return []plugins.Plugin{
		ChessPlugin(),
		MarkdownPlugin(),
	}
}
