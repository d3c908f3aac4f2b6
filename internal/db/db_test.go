package db

import (
	"os"
	"path/filepath"
	"testing"

	"jielong/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, Migrate(conn))
	return conn
}

func TestParseBlacklistSeed(t *testing.T) {
	raw := []byte(`
entries:
  - pattern: spam
  - pattern: '^\d{3}-\d{4}$'
    is_regex: true
  - pattern: ""
`)
	entries, err := ParseBlacklistSeed(raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "spam", entries[0].Pattern)
	assert.False(t, entries[0].IsRegex)
	assert.True(t, entries[1].IsRegex)
}

func TestParseBlacklistSeedOnlyBlank(t *testing.T) {
	_, err := ParseBlacklistSeed([]byte("entries:\n  - pattern: \"\"\n"))
	assert.Error(t, err)
}

func TestSeedBlacklistOnlyWhenEmpty(t *testing.T) {
	conn := openMemory(t)

	path := filepath.Join(t.TempDir(), "blacklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries:\n  - pattern: spam\n  - pattern: scam\n"), 0o600))

	require.NoError(t, SeedBlacklist(conn, path))
	require.NoError(t, SeedBlacklist(conn, path))

	var count int64
	conn.Model(&models.BlacklistEntry{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "")
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{":memory:", ":memory:?_foreign_keys=on"},
		{"data.db?cache=shared", "data.db?cache=shared&_foreign_keys=on"},
		{"data.db?_fk=1", "data.db?_fk=1"},
		{"data.db?_foreign_keys=off", "data.db?_foreign_keys=off"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.in), tt.in)
	}
}

func TestOpenSqliteEnforcesForeignKeys(t *testing.T) {
	conn := openMemory(t)
	var on int
	require.NoError(t, conn.Raw("PRAGMA foreign_keys").Scan(&on).Error)
	assert.Equal(t, 1, on)
}
