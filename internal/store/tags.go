// ABOUTME: Tag persistence for the tenant store
// ABOUTME: Tag names are unique per tenant; tags are not yet linked to pages

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CreateTag inserts a tag. Returns ErrDuplicate if the name is taken.
func (s *TenantStore) CreateTag(ctx context.Context, name, color string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: tag name is required", ErrInvalidInput)
	}

	tag := &Tag{ID: uuid.New().String(), Name: name, Color: color}
	_, err := s.db.ExecContext(ctx, `INSERT INTO tags (id, name, color) VALUES (?, ?, ?)`,
		tag.ID, tag.Name, nullString(color))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: tag %q", ErrDuplicate, name)
		}
		return nil, fmt.Errorf("inserting tag: %w", err)
	}

	s.logger.Debug("created tag", "id", tag.ID, "name", name)
	return tag, nil
}

// ListTags returns tags ordered by name.
func (s *TenantStore) ListTags(ctx context.Context) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tags := []*Tag{}
	for rows.Next() {
		var t Tag
		var color sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &color); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		t.Color = color.String
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}

// DeleteTag removes a tag by ID.
func (s *TenantStore) DeleteTag(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	return requireRow(result)
}
