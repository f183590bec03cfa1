// ABOUTME: System-wide SQLite store holding the tenant registry and user identities
// ABOUTME: Tenant registration is idempotent via ON CONFLICT DO NOTHING

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SystemTables is the schema of the system store.
var SystemTables = []Table{
	{
		Name: "tenants",
		DDL: `
			CREATE TABLE IF NOT EXISTS tenants (
				id         TEXT PRIMARY KEY,
				name       TEXT NOT NULL,
				slug       TEXT NOT NULL,
				created_at TEXT NOT NULL
			);
		`,
	},
	{
		Name: "users",
		DDL: `
			CREATE TABLE IF NOT EXISTS users (
				id             TEXT PRIMARY KEY,
				name           TEXT NOT NULL UNIQUE,
				email          TEXT NOT NULL UNIQUE,
				email_verified TEXT,
				image          TEXT,
				password_hash  TEXT,
				created_at     TEXT NOT NULL
			);
		`,
	},
}

// SystemStore is the single global store for tenants and users.
type SystemStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSystemStore opens (or creates) the system database at path.
func OpenSystemStore(ctx context.Context, path string) (*SystemStore, error) {
	logger := slog.Default().With("component", "system_store")

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	if err := applySchema(ctx, db, SystemTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("system store opened", "path", path)
	return &SystemStore{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection
func (s *SystemStore) Close() error {
	s.logger.Info("closing system store", "path", s.path)
	return s.db.Close()
}

// InsertTenant registers a tenant. If the ID already exists nothing changes
// and inserted is false; the first registered name is kept.
func (s *SystemStore) InsertTenant(ctx context.Context, id, name string) (inserted bool, err error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, name, slug, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, name, id, FormatTime(time.Now()))
	if err != nil {
		return false, fmt.Errorf("inserting tenant: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}
	if n > 0 {
		s.logger.Debug("registered tenant", "id", id)
	}
	return n > 0, nil
}

func scanTenant(row rowScanner) (*Tenant, error) {
	var t Tenant
	var createdAt string
	if err := row.Scan(&t.ID, &t.Name, &t.Slug, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenant retrieves a tenant by ID.
// Returns ErrNotFound if the tenant isn't registered.
func (s *SystemStore) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, slug, created_at FROM tenants WHERE id = ?`, id)
	t, err := scanTenant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant: %w", err)
	}
	return t, nil
}

// ListTenants returns all tenants in registration order.
func (s *SystemStore) ListTenants(ctx context.Context) ([]*Tenant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM tenants ORDER BY rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying tenants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tenants := []*Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tenant row: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tenant rows: %w", err)
	}
	return tenants, nil
}

// CreateUser inserts a user. Returns ErrDuplicate if the name or email is taken.
func (s *SystemStore) CreateUser(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Name == "" || user.Email == "" {
		return fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	var verified any
	if user.EmailVerified != nil {
		verified = FormatTime(*user.EmailVerified)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, email_verified, image, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Name, user.Email, verified, nullString(user.Image), nullString(user.PasswordHash), FormatTime(user.CreatedAt))
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: user %q", ErrDuplicate, user.Name)
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Debug("created user", "id", user.ID, "name", user.Name)
	return nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (s *SystemStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.getUser(ctx, `email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByName retrieves a user by name.
func (s *SystemStore) GetUserByName(ctx context.Context, name string) (*User, error) {
	return s.getUser(ctx, `name = ?`, name)
}

func (s *SystemStore) getUser(ctx context.Context, where string, arg string) (*User, error) {
	var u User
	var verified, image, hash sql.NullString
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, email_verified, image, password_hash, created_at
		FROM users WHERE `+where, arg).Scan(&u.ID, &u.Name, &u.Email, &verified, &image, &hash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	u.Image = image.String
	u.PasswordHash = hash.String
	if verified.Valid {
		t, err := ParseTime("email_verified", verified.String)
		if err != nil {
			return nil, err
		}
		u.EmailVerified = &t
	}
	if u.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}
