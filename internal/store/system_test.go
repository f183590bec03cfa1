// ABOUTME: Tests for the system store tenant registry and users
// ABOUTME: Verifies idempotent tenant inserts and user uniqueness

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSystemStore(t *testing.T) *SystemStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "system", "system.db")

	s, err := OpenSystemStore(context.Background(), path)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestInsertTenant_Idempotent(t *testing.T) {
	s := setupSystemStore(t)
	ctx := context.Background()

	inserted, err := s.InsertTenant(ctx, "alice", "Alice")
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.InsertTenant(ctx, "alice", "Someone Else")
	require.NoError(t, err)
	assert.False(t, inserted)

	tenant, err := s.GetTenant(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", tenant.Name, "first registered name wins")
	assert.Equal(t, "alice", tenant.Slug)
	assert.False(t, tenant.CreatedAt.IsZero())
}

func TestListTenants(t *testing.T) {
	s := setupSystemStore(t)
	ctx := context.Background()

	for _, id := range []string{"carol", "alice", "bob"} {
		_, err := s.InsertTenant(ctx, id, id)
		require.NoError(t, err)
	}

	tenants, err := s.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, tenants, 3)
	assert.Equal(t, "carol", tenants[0].ID)
	assert.Equal(t, "bob", tenants[2].ID)
}

func TestGetTenant_NotFound(t *testing.T) {
	s := setupSystemStore(t)

	_, err := s.GetTenant(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUser(t *testing.T) {
	s := setupSystemStore(t)
	ctx := context.Background()

	verified := time.Now().UTC()
	user := &User{
		Name:          "alice",
		Email:         "  Alice@Example.com ",
		EmailVerified: &verified,
		PasswordHash:  "hash",
	}
	require.NoError(t, s.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)

	got, err := s.GetUserByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "hash", got.PasswordHash)
	require.NotNil(t, got.EmailVerified)
	assert.True(t, got.EmailVerified.Equal(verified))

	byName, err := s.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestCreateUser_Duplicates(t *testing.T) {
	s := setupSystemStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &User{Name: "alice", Email: "alice@example.com"}))

	err := s.CreateUser(ctx, &User{Name: "alice2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = s.CreateUser(ctx, &User{Name: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = s.CreateUser(ctx, &User{Name: "", Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUser_NotFound(t *testing.T) {
	s := setupSystemStore(t)

	_, err := s.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
