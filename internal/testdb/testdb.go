// Package testdb gives tests a migrated in-memory SQLite database.
package testdb

import (
	"testing"

	"github.com/AdamBeresnev/bracket-picks/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// New creates an in-memory SQLite database and applies migrations
func New(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.Open("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database), "Failed to apply migrations")
	return database
}
