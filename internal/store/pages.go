// ABOUTME: Page CRUD for the tenant store
// ABOUTME: Slugs are derived from titles and are intentionally not unique

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const pageColumns = `id, title, slug, content, parent_id, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*Page, error) {
	var p Page
	var parentID sql.NullString
	var createdAt, updatedAt string

	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &parentID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if parentID.Valid {
		p.ParentID = &parentID.String
	}

	var err error
	if p.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = ParseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePage inserts a new page with empty content.
// Returns ErrInvalidReference if parentID names a page that doesn't exist.
func (s *TenantStore) CreatePage(ctx context.Context, title string, parentID *string) (*Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	slug := Slugify(title)
	if slug == "" {
		slug = fallbackSlug
	}

	now := time.Now().UTC()
	page := &Page{
		ID:        uuid.New().String(),
		Title:     title,
		Slug:      slug,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (id, title, slug, content, parent_id, created_at, updated_at)
		VALUES (?, ?, ?, '', ?, ?, ?)
	`, page.ID, page.Title, page.Slug, nullStringPtr(parentID), FormatTime(now), FormatTime(now))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: parent page %q", ErrInvalidReference, *parentID)
		}
		return nil, fmt.Errorf("inserting page: %w", err)
	}

	s.logger.Debug("created page", "id", page.ID, "slug", page.Slug)
	return page, nil
}

// GetPage retrieves a page by ID.
// Returns ErrNotFound if the page doesn't exist.
func (s *TenantStore) GetPage(ctx context.Context, id string) (*Page, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying page: %w", err)
	}
	return page, nil
}

// GetPageBySlug retrieves the first page (in insertion order) whose slug matches.
// Slugs are not unique, so later pages with the same slug are shadowed.
// Returns ErrNotFound if no page has the slug.
func (s *TenantStore) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+`
		FROM pages
		WHERE slug = ?
		ORDER BY rowid ASC
		LIMIT 1
	`, slug)
	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying page by slug: %w", err)
	}
	return page, nil
}

// ListPages returns every page in insertion order.
func (s *TenantStore) ListPages(ctx context.Context) ([]*Page, error) {
	return s.queryPages(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY rowid ASC`)
}

// ListChildPages returns the direct children of parentID in insertion order.
func (s *TenantStore) ListChildPages(ctx context.Context, parentID string) ([]*Page, error) {
	return s.queryPages(ctx, `SELECT `+pageColumns+` FROM pages WHERE parent_id = ? ORDER BY rowid ASC`, parentID)
}

func (s *TenantStore) queryPages(ctx context.Context, query string, args ...any) ([]*Page, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	pages := []*Page{}
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning page row: %w", err)
		}
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating page rows: %w", err)
	}
	return pages, nil
}

// UpdatePageContent replaces the page's serialized document and bumps updated_at.
// There is no version check: the last write wins.
func (s *TenantStore) UpdatePageContent(ctx context.Context, id, content string) (*Page, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE pages SET content = ?, updated_at = ? WHERE id = ?
	`, content, FormatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("updating page content: %w", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}

	s.logger.Debug("updated page content", "id", id, "size", len(content))
	return s.GetPage(ctx, id)
}

// RenamePage changes the title and re-derives the slug.
func (s *TenantStore) RenamePage(ctx context.Context, id, title string) (*Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	slug := Slugify(title)
	if slug == "" {
		slug = fallbackSlug
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE pages SET title = ?, slug = ?, updated_at = ? WHERE id = ?
	`, title, slug, FormatTime(time.Now()), id)
	if err != nil {
		return nil, fmt.Errorf("renaming page: %w", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}

	s.logger.Debug("renamed page", "id", id, "slug", slug)
	return s.GetPage(ctx, id)
}

// DeletePage removes a page. Its cards (and any plugin rows keyed to it with
// ON DELETE CASCADE) go with it; child pages are detached, not deleted.
func (s *TenantStore) DeletePage(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	s.logger.Debug("deleted page", "id", id)
	return nil
}

// requireRow returns ErrNotFound when a statement touched nothing.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
