package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sshmgr/internal/database"
)

func setupDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

func sampleFields() ProfileFields {
	return ProfileFields{
		Group:    "infra",
		Name:     "db1",
		Host:     "10.0.0.5",
		Port:     22,
		User:     "root",
		Secret:   "x",
		Protocol: ProtocolSSH,
	}
}
