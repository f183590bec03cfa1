// ABOUTME: Tests for tenant store bootstrap and page persistence
// ABOUTME: Covers schema idempotency, slug ambiguity, and content updates

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTenantStore creates a temporary tenant store for testing.
func setupTenantStore(t *testing.T, extra ...Table) *TenantStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.sqlite")

	s, err := OpenTenantStore(context.Background(), path, extra...)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestOpenTenantStore_CreatesNestedDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tenants", "alice", "db.sqlite")

	s, err := OpenTenantStore(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist")
	assert.Equal(t, path, s.Path())
}

func TestOpenTenantStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.sqlite")

	s, err := OpenTenantStore(ctx, path)
	require.NoError(t, err)
	_, err = s.CreatePage(ctx, "Kept", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Re-running the schema must not drop or fail on existing tables.
	s, err = OpenTenantStore(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	pages, err := s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "kept", pages[0].Slug)
}

func TestOpenTenantStore_AppliesExtraTables(t *testing.T) {
	ctx := context.Background()
	extra := Table{
		Name: "widgets",
		DDL:  `CREATE TABLE IF NOT EXISTS widgets (id TEXT PRIMARY KEY, page_id TEXT REFERENCES pages(id) ON DELETE CASCADE)`,
	}
	s := setupTenantStore(t, extra)

	page, err := s.CreatePage(ctx, "Host", nil)
	require.NoError(t, err)

	_, err = s.DB().ExecContext(ctx, `INSERT INTO widgets (id, page_id) VALUES ('w1', ?)`, page.ID)
	require.NoError(t, err)

	require.NoError(t, s.DeletePage(ctx, page.ID))

	var count int
	require.NoError(t, s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM widgets`).Scan(&count))
	assert.Equal(t, 0, count, "plugin rows should cascade with their page")
}

func TestOpenTenantStore_BadFragment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.sqlite")
	_, err := OpenTenantStore(context.Background(), path, Table{Name: "broken", DDL: "CREATE TABLE ("})
	assert.Error(t, err)
}

func TestCreatePage(t *testing.T) {
	s := setupTenantStore(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, "Hello World", nil)
	require.NoError(t, err)

	assert.NotEmpty(t, page.ID)
	assert.Equal(t, "Hello World", page.Title)
	assert.Equal(t, "hello-world", page.Slug)
	assert.Empty(t, page.Content)
	assert.Nil(t, page.ParentID)
	assert.Equal(t, page.CreatedAt, page.UpdatedAt)

	got, err := s.GetPageBySlug(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, page.ID, got.ID)
	assert.Equal(t, "Hello World", got.Title)
	assert.Empty(t, got.Content)
}

func TestCreatePage_EmptyTitle(t *testing.T) {
	s := setupTenantStore(t)

	_, err := s.CreatePage(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreatePage_SymbolOnlyTitle(t *testing.T) {
	s := setupTenantStore(t)

	page, err := s.CreatePage(context.Background(), "!!!", nil)
	require.NoError(t, err)
	assert.Equal(t, "untitled", page.Slug)
}

func TestCreatePage_DuplicateSlugsAllowed(t *testing.T) {
	s := setupTenantStore(t)
	ctx := context.Background()

	first, err := s.CreatePage(ctx, "My Page", nil)
	require.NoError(t, err)
	second, err := s.CreatePage(ctx, "my page!!", nil)
	require.NoError(t, err, "slugs are not unique, so no constraint should fire")

	assert.Equal(t, first.Slug, second.Slug)
	assert.NotEqual(t, first.ID, second.ID)

	// Lookup by an ambiguous slug always resolves to the first insert.
	for i := 0; i < 3; i++ {
		got, err := s.GetPageBySlug(ctx, "my-page")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	}
}

func TestGetPage_NotFound(t *testing.T) {
	s := setupTenantStore(t)
	ctx := context.Background()

	_, err := s.GetPage(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.GetPageBySlug(ctx, "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPages_InsertionOrder(t *testing.T) {
	s := setupTenantStore(t)
	ctx := context.Background()

	titles := []string{"Zeta", "Alpha", "Mu"}
	for _, title := range titles {
		_, err := s.CreatePage(ctx, title, nil)
		require.NoError(t, err)
	}

	pages, err := s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, title := range titles {
		assert.Equal(t, title, pages[i].Title)
	}
}

func TestListPages_Empty(t *testing.T) {
	s := setupTenantStore(t)

	pages, err := s.ListPages(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestPageTree(t *testing.T) {
	s := setupTenantStore(t)
	ctx := context.Background()

	root, err := s.CreatePage(ctx, "Root", nil)
	require.NoError(t, err)
	child, err := s.CreatePage(ctx, "Child", &root.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, root.ID, *child.ParentID)

	children, err := s.ListChildPages(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	// Deleting the parent detaches the child rather than deleting it.
	require.NoError(t, s.DeletePage(ctx, root.ID))
	got, err := s.GetPage(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestCreatePage_UnknownParent(t *testing.T) {
	s := setupTenantStore(t)
	missing := "no-such-page"

	_, err := s.CreatePage(context.Background(), "Orphan", &missing)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestUpdatePageContent(t *testing.T) {
	s := setupTenantStore(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, "Doc", nil)
	require.NoError(t, err)

	doc := `{"type":"doc","content":[{"type":"chessBoard","attrs":{"gameId":"g1","fen":"8/8/8/8/8/8/8/8 w - - 0 1"}}]}`
	updated, err := s.UpdatePageContent(ctx, page.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, doc, updated.Content, "content is stored opaquely")
	assert.False(t, updated.UpdatedAt.Before(page.UpdatedAt))

	// Last write wins.
	updated, err = s.UpdatePageContent(ctx, page.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Content)
}

func TestUpdatePageContent_NotFound(t *testing.T) {
	s := setupTenantStore(t)

	_, err := s.UpdatePageContent(context.Background(), "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRenamePage(t *testing.T) {
	s := setupTenantStore(t)
	ctx := context.Background()

	page, err := s.CreatePage(ctx, "Draft", nil)
	require.NoError(t, err)

	renamed, err := s.RenamePage(ctx, page.ID, "Final Copy")
	require.NoError(t, err)
	assert.Equal(t, "Final Copy", renamed.Title)
	assert.Equal(t, "final-copy", renamed.Slug)

	_, err = s.RenamePage(ctx, page.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeletePage_NotFound(t *testing.T) {
	s := setupTenantStore(t)

	err := s.DeletePage(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
