package store

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	migs, err := loadMigrations(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, migs)

	first := migs[0]
	assert.Equal(t, 1, first.version)
	assert.Equal(t, "create_users", first.name)
	require.NotEmpty(t, first.upFile)
	require.NotEmpty(t, first.downFile)

	up, err := migrationsFS.ReadFile(first.upFile)
	require.NoError(t, err)
	sql := string(up)
	for _, col := range []string{
		"id         VARCHAR(36)  PRIMARY KEY",
		"email      VARCHAR(255) NOT NULL UNIQUE",
		"full_name  VARCHAR(255)",
		"avatar_url TEXT",
		"is_active  BOOLEAN      NOT NULL DEFAULT TRUE",
		"created_at TIMESTAMPTZ",
		"updated_at TIMESTAMPTZ",
	} {
		assert.Contains(t, sql, col)
	}
	assert.Contains(t, sql, "ix_users_email")

	down, err := migrationsFS.ReadFile(first.downFile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(down), "DROP TABLE IF EXISTS users"))
}

func TestLoadMigrations_OrderAndFilter(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_add_locale.up.sql":     {Data: []byte("ALTER TABLE users ADD COLUMN locale TEXT;")},
		"migrations/0001_create_users.up.sql":   {Data: []byte("CREATE TABLE users ();")},
		"migrations/0001_create_users.down.sql": {Data: []byte("DROP TABLE users;")},
		"migrations/README.md":                  {Data: []byte("ignored")},
		"migrations/1_bad.up.sql":               {Data: []byte("ignored")},
	}

	migs, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, migs, 2)

	assert.Equal(t, 1, migs[0].version)
	assert.Equal(t, "migrations/0001_create_users.down.sql", migs[0].downFile)
	assert.Equal(t, 2, migs[1].version)
	assert.Equal(t, "add_locale", migs[1].name)
	assert.Empty(t, migs[1].downFile)
}

func TestLoadMigrations_ConflictingNames(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_a.up.sql":   {Data: []byte("")},
		"migrations/0001_b.down.sql": {Data: []byte("")},
	}
	_, err := loadMigrations(fsys)
	assert.Error(t, err)
}
