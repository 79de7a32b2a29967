// Package testutil provides shared test helpers for setting up databases.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/nstrand/binder/internal/entity"
)

// TestDB creates a temporary SQLite database with the full schema applied,
// cleaned up automatically.
func TestDB(t *testing.T) *entity.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "binder-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := entity.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	db.Reconcile(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return db
}
