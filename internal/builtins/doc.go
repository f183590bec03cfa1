// Package builtins provides the plugins compiled into Benotes.
//
// # Overview
//
// Built-in plugins extend page content with typed blocks. Each one is a
// plugins.Plugin descriptor; All returns them in registration order.
//
// Chess (chess):
//
//   - table chess_games, one row per embedded board, cascading with its page
//   - card type chess:game
//   - editor node chessBoard{gameId, fen}
//   - routes POST /games, GET /games/{id}, PUT /games/{id},
//     GET /pages/{pageID}/games
//
// Markdown (markdown):
//
//   - card type markdown:snippet
//   - route POST /render converting markdown to HTML
//
// # Registration
//
//	registry, err := plugins.NewRegistry(logger, builtins.All()...)
//
// # Data Persistence
//
// Plugin tables live inside each tenant's database file. Handlers reach the
// caller's store through the plugins.StoreResolver passed to their route
// hook, then wrap store.TenantStore.DB with a typed accessor such as Games.
//
// The chess_games row is authoritative for a board's position. The fen
// attribute on the editor node is a render hint that may lag behind it.
package builtins
