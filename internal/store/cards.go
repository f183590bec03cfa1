// ABOUTME: Card CRUD for the tenant store
// ABOUTME: Cards are plugin-typed blocks with opaque JSON content and metadata

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const cardColumns = `id, page_id, type, plugin, content, metadata, created_at`

func scanCard(row rowScanner) (*Card, error) {
	var c Card
	var pageID sql.NullString
	var content, metadata, createdAt string

	if err := row.Scan(&c.ID, &pageID, &c.Type, &c.Plugin, &content, &metadata, &createdAt); err != nil {
		return nil, err
	}
	if pageID.Valid {
		c.PageID = &pageID.String
	}
	c.Content = json.RawMessage(content)
	c.Metadata = json.RawMessage(metadata)

	var err error
	if c.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// normalizeJSON defaults empty payloads to {} and rejects malformed ones.
func normalizeJSON(field string, raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "{}", nil
	}
	if !json.Valid(raw) {
		return "", fmt.Errorf("%w: %s is not valid JSON", ErrInvalidInput, field)
	}
	return string(raw), nil
}

// CreateCard inserts a card. ID and CreatedAt are filled in when empty.
// Returns ErrInvalidReference if PageID names a page that doesn't exist.
func (s *TenantStore) CreateCard(ctx context.Context, card *Card) error {
	if card.Type == "" || card.Plugin == "" {
		return fmt.Errorf("%w: card type and plugin are required", ErrInvalidInput)
	}
	if card.PageID != nil && *card.PageID == "" {
		card.PageID = nil
	}
	content, err := normalizeJSON("content", card.Content)
	if err != nil {
		return err
	}
	metadata, err := normalizeJSON("metadata", card.Metadata)
	if err != nil {
		return err
	}

	if card.ID == "" {
		card.ID = uuid.New().String()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (id, page_id, type, plugin, content, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, card.ID, nullStringPtr(card.PageID), card.Type, card.Plugin, content, metadata, FormatTime(card.CreatedAt))
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: page %q", ErrInvalidReference, *card.PageID)
		}
		if isConstraintViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("inserting card: %w", err)
	}

	card.Content = json.RawMessage(content)
	card.Metadata = json.RawMessage(metadata)
	s.logger.Debug("created card", "id", card.ID, "type", card.Type)
	return nil
}

// GetCard retrieves a card by ID.
// Returns ErrNotFound if the card doesn't exist.
func (s *TenantStore) GetCard(ctx context.Context, id string) (*Card, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	card, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying card: %w", err)
	}
	return card, nil
}

// ListCards returns cards in insertion order. A nil pageID lists every card.
func (s *TenantStore) ListCards(ctx context.Context, pageID *string) ([]*Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards`
	var args []any
	if pageID != nil {
		query += ` WHERE page_id = ?`
		args = append(args, *pageID)
	}
	query += ` ORDER BY rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := []*Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating card rows: %w", err)
	}
	return cards, nil
}

// UpdateCard replaces a card's content and metadata.
func (s *TenantStore) UpdateCard(ctx context.Context, id string, content, metadata json.RawMessage) (*Card, error) {
	c, err := normalizeJSON("content", content)
	if err != nil {
		return nil, err
	}
	m, err := normalizeJSON("metadata", metadata)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE cards SET content = ?, metadata = ? WHERE id = ?`, c, m, id)
	if err != nil {
		return nil, fmt.Errorf("updating card: %w", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}

	s.logger.Debug("updated card", "id", id)
	return s.GetCard(ctx, id)
}

// DeleteCard removes a card.
func (s *TenantStore) DeleteCard(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	return requireRow(result)
}
