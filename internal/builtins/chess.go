// ABOUTME: Chess plugin: embedded boards persisted in the chess_games table
// ABOUTME: Provides the Games accessor and HTTP routes for creating and moving games

package builtins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/2389/benotes/internal/plugins"
	"github.com/2389/benotes/internal/store"
)

const (
	ChessPluginID   = "chess"
	ChessCardType   = "chess:game"
	ChessNodeType   = "chessBoard"
	chessGamesTable = "chess_games"
)

// ChessPlugin returns the chess plugin descriptor.
func ChessPlugin() plugins.Plugin {
	return plugins.Plugin{
		ID:          ChessPluginID,
		Name:        "Chess",
		Description: "Embed playable chess boards in pages",
		Tables: []store.Table{
			{
				Name: chessGamesTable,
				DDL: `
					CREATE TABLE IF NOT EXISTS chess_games (
						id         TEXT PRIMARY KEY,
						page_id    TEXT NOT NULL REFERENCES pages(id) ON DELETE CASCADE,
						fen        TEXT NOT NULL,
						pgn        TEXT NOT NULL DEFAULT '',
						created_at TEXT NOT NULL,
						updated_at TEXT NOT NULL
					);

					CREATE INDEX IF NOT EXISTS idx_chess_games_page ON chess_games(page_id);
				`,
			},
		},
		CardTypes: []string{ChessCardType},
		Nodes: []plugins.NodeType{
			{Name: ChessNodeType, Attrs: []string{"gameId", "fen"}},
		},
		Routes: chessRoutes,
	}
}

// Game is one embedded board.
type Game struct {
	ID        string    `json:"id"`
	PageID    string    `json:"page_id"`
	FEN       string    `json:"fen"`
	PGN       string    `json:"pgn"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Games is the typed accessor for the chess_games table.
type Games struct {
	db *sql.DB
}

// NewGames wraps a tenant store's chess_games table.
func NewGames(s *store.TenantStore) *Games {
	return &Games{db: s.DB()}
}

const gameColumns = `id, page_id, fen, pgn, created_at, updated_at`

func scanGame(row interface{ Scan(...any) error }) (*Game, error) {
	var g Game
	var createdAt, updatedAt string
	if err := row.Scan(&g.ID, &g.PageID, &g.FEN, &g.PGN, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if g.CreatedAt, err = store.ParseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = store.ParseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// Create starts a game on pageID. An empty fen means the starting position.
// Returns store.ErrInvalidReference if the page doesn't exist.
func (g *Games) Create(ctx context.Context, pageID, fen string) (*Game, error) {
	if pageID == "" {
		return nil, fmt.Errorf("%w: page_id is required", store.ErrInvalidInput)
	}
	fen = strings.TrimSpace(fen)
	if fen == "" {
		fen = StartingFEN
	}
	if err := ValidateFEN(fen); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	game := &Game{
		ID:        uuid.New().String(),
		PageID:    pageID,
		FEN:       fen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := g.db.ExecContext(ctx, `
		INSERT INTO chess_games (id, page_id, fen, pgn, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?)
	`, game.ID, game.PageID, game.FEN, store.FormatTime(now), store.FormatTime(now))
	if err != nil {
		if store.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: page %q", store.ErrInvalidReference, pageID)
		}
		return nil, fmt.Errorf("inserting chess game: %w", err)
	}
	return game, nil
}

// Get retrieves a game by ID.
// Returns store.ErrNotFound if the game doesn't exist.
func (g *Games) Get(ctx context.Context, id string) (*Game, error) {
	row := g.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM chess_games WHERE id = ?`, id)
	game, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying chess game: %w", err)
	}
	return game, nil
}

// ListByPage returns the games embedded in pageID, oldest first.
func (g *Games) ListByPage(ctx context.Context, pageID string) ([]*Game, error) {
	rows, err := g.db.QueryContext(ctx, `
		SELECT `+gameColumns+` FROM chess_games WHERE page_id = ? ORDER BY rowid ASC
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("querying chess games: %w", err)
	}
	defer func() { _ = rows.Close() }()

	games := []*Game{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chess game: %w", err)
		}
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chess games: %w", err)
	}
	return games, nil
}

// UpdatePosition stores a new position and move record. Last write wins.
func (g *Games) UpdatePosition(ctx context.Context, id, fen, pgn string) (*Game, error) {
	fen = strings.TrimSpace(fen)
	if err := ValidateFEN(fen); err != nil {
		return nil, err
	}

	result, err := g.db.ExecContext(ctx, `
		UPDATE chess_games SET fen = ?, pgn = ?, updated_at = ? WHERE id = ?
	`, fen, pgn, store.FormatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("updating chess game: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}
	return g.Get(ctx, id)
}

type chessHandlers struct {
	resolve plugins.StoreResolver
}

func chessRoutes(r chi.Router, resolve plugins.StoreResolver) {
	h := &chessHandlers{resolve: resolve}
	r.Post("/games", h.create)
	r.Get("/games/{id}", h.get)
	r.Put("/games/{id}", h.update)
	r.Get("/pages/{pageID}/games", h.listByPage)
}

func (h *chessHandlers) games(w http.ResponseWriter, r *http.Request) (*Games, bool) {
	s, err := h.resolve(r.Context())
	if err != nil {
		plugins.WriteStoreError(w, err)
		return nil, false
	}
	return NewGames(s), true
}

type createGameRequest struct {
	PageID string `json:"page_id"`
	FEN    string `json:"fen"`
}

func (h *chessHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		plugins.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	games, ok := h.games(w, r)
	if !ok {
		return
	}
	game, err := games.Create(r.Context(), req.PageID, req.FEN)
	if err != nil {
		plugins.WriteStoreError(w, err)
		return
	}
	plugins.WriteJSON(w, http.StatusCreated, game)
}

func (h *chessHandlers) get(w http.ResponseWriter, r *http.Request) {
	games, ok := h.games(w, r)
	if !ok {
		return
	}
	game, err := games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		plugins.WriteStoreError(w, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, game)
}

type updateGameRequest struct {
	FEN string `json:"fen"`
	PGN string `json:"pgn"`
}

func (h *chessHandlers) update(w http.ResponseWriter, r *http.Request) {
	var req updateGameRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		plugins.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	games, ok := h.games(w, r)
	if !ok {
		return
	}
	game, err := games.UpdatePosition(r.Context(), chi.URLParam(r, "id"), req.FEN, req.PGN)
	if err != nil {
		plugins.WriteStoreError(w, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, game)
}

func (h *chessHandlers) listByPage(w http.ResponseWriter, r *http.Request) {
	games, ok := h.games(w, r)
	if !ok {
		return
	}
	list, err := games.ListByPage(r.Context(), chi.URLParam(r, "pageID"))
	if err != nil {
		plugins.WriteStoreError(w, err)
		return
	}
	plugins.WriteJSON(w, http.StatusOK, map[string]any{"games": list})
}
