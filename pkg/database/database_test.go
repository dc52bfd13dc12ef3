package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		expected string
	}{
		{
			name:     "default ssl mode",
			cfg:      Config{Host: "localhost", Port: 5432, User: "admin", Password: "pw", Name: "latency"},
			expected: "host=localhost port=5432 user=admin password=pw dbname=latency sslmode=disable",
		},
		{
			name:     "explicit ssl mode",
			cfg:      Config{Host: "db", Port: 6543, User: "u", Password: "p", Name: "n", SSLMode: "require"},
			expected: "host=db port=6543 user=u password=p dbname=n sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.DSN())
		})
	}
}

func TestMigrationFiles(t *testing.T) {
	files, err := MigrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_status_checks.sql", files[0])

	for _, f := range files {
		content, err := fs.ReadFile(migrationsFS, "migrations/"+f)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(content), "CREATE TABLE"), f)
	}
}
