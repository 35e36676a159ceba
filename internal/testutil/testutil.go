// Package testutil provides shared test helpers for setting up note
// directories and catalogs.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/notestore"
)

// TestStore creates a note store over a temporary directory.
func TestStore(t *testing.T) *notestore.Store {
	t.Helper()
	store, err := notestore.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// TestCatalog creates a temporary SQLite catalog over store that is
// automatically closed.
func TestCatalog(t *testing.T, store *notestore.Store) *index.Catalog {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return index.NewCatalog(db, store, DiscardLogger())
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
