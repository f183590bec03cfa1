// ABOUTME: Tests for the chess plugin accessor, FEN validation and routes
// ABOUTME: Uses a real tenant SQLite store bootstrapped with the plugin's tables

package builtins

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/benotes/internal/store"
)

func newTestStore(t *testing.T) *store.TenantStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.sqlite")
	s, err := store.OpenTenantStore(context.Background(), path, ChessPlugin().Tables...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestPage(t *testing.T, s *store.TenantStore) *store.Page {
	t.Helper()
	page, err := s.CreatePage(context.Background(), "Openings", nil)
	require.NoError(t, err)
	return page
}

func TestValidateFEN(t *testing.T) {
	valid := []string{
		StartingFEN,
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/8/8/8/8/8/8/K6k w - - 50 120",
	}
	for _, fen := range valid {
		assert.NoError(t, ValidateFEN(fen), fen)
	}

	invalid := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/ppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/9/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/ppppxppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KKqq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq e4 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - -1 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 0",
	}
	for _, fen := range invalid {
		err := ValidateFEN(fen)
		assert.ErrorIs(t, err, ErrInvalidFEN, fen)
		assert.ErrorIs(t, err, store.ErrInvalidInput, fen)
	}
}

func TestGames_CreateDefaultsToStartingPosition(t *testing.T) {
	s := newTestStore(t)
	page := newTestPage(t, s)
	games := NewGames(s)
	ctx := context.Background()

	game, err := games.Create(ctx, page.ID, "")
	require.NoError(t, err)
	assert.Equal(t, StartingFEN, game.FEN)
	assert.Equal(t, page.ID, game.PageID)

	got, err := games.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.ID, got.ID)
	assert.Equal(t, StartingFEN, got.FEN)
	assert.Empty(t, got.PGN)
}

func TestGames_CreateRejectsUnknownPage(t *testing.T) {
	s := newTestStore(t)
	_, err := NewGames(s).Create(context.Background(), "no-such-page", "")
	assert.ErrorIs(t, err, store.ErrInvalidReference)
}

func TestGames_UpdatePosition(t *testing.T) {
	s := newTestStore(t)
	page := newTestPage(t, s)
	games := NewGames(s)
	ctx := context.Background()

	game, err := games.Create(ctx, page.ID, "")
	require.NoError(t, err)

	next := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	updated, err := games.UpdatePosition(ctx, game.ID, next, "1. e4")
	require.NoError(t, err)
	assert.Equal(t, next, updated.FEN)
	assert.Equal(t, "1. e4", updated.PGN)
	assert.False(t, updated.UpdatedAt.Before(game.UpdatedAt))

	_, err = games.UpdatePosition(ctx, game.ID, "garbage", "")
	assert.ErrorIs(t, err, ErrInvalidFEN)

	_, err = games.UpdatePosition(ctx, "missing", StartingFEN, "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGames_CascadeWithPage(t *testing.T) {
	s := newTestStore(t)
	page := newTestPage(t, s)
	games := NewGames(s)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := games.Create(ctx, page.ID, "")
		require.NoError(t, err)
	}
	list, err := games.ListByPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.DeletePage(ctx, page.ID))

	list, err = games.ListByPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func newChessServer(t *testing.T, s *store.TenantStore) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	chessRoutes(r, func(context.Context) (*store.TenantStore, error) { return s, nil })
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestChessRoutes(t *testing.T) {
	s := newTestStore(t)
	page := newTestPage(t, s)
	srv := newChessServer(t, s)

	resp, err := http.Post(srv.URL+"/games", "application/json",
		strings.NewReader(`{"page_id":"`+page.ID+`"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created Game
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, StartingFEN, created.FEN)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/games/"+created.ID,
		strings.NewReader(`{"fen":"8/8/8/8/8/8/8/K6k w - - 0 1","pgn":""}`))
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	resp3, err := http.Get(srv.URL + "/pages/" + page.ID + "/games")
	require.NoError(t, err)
	defer resp3.Body.Close()
	var listed struct {
		Games []Game `json:"games"`
	}
	require.NoError(t, json.NewDecoder(resp3.Body).Decode(&listed))
	require.Len(t, listed.Games, 1)
	assert.Equal(t, "8/8/8/8/8/8/8/K6k w - - 0 1", listed.Games[0].FEN)

	resp4, err := http.Get(srv.URL + "/games/missing")
	require.NoError(t, err)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp4.StatusCode)

	resp5, err := http.Post(srv.URL+"/games", "application/json",
		strings.NewReader(`{"page_id":"`+page.ID+`","fen":"bad"}`))
	require.NoError(t, err)
	defer resp5.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp5.StatusCode)
}
