package index

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/scribe/internal/notestore"
)

// defaultLimit caps search results when the caller passes no limit.
const defaultLimit = 20

// Source is the notes directory the catalog mirrors.
type Source interface {
	Scan() ([]notestore.Entry, error)
	Read(name string) ([]byte, error)
}

// Catalog answers :find queries over the saved notes, bringing the
// database up to date with the directory before every search.
type Catalog struct {
	db     *DB
	src    Source
	logger *slog.Logger

	mu sync.Mutex
}

// NewCatalog returns a catalog mirroring src into db.
func NewCatalog(db *DB, src Source, logger *slog.Logger) *Catalog {
	return &Catalog{db: db, src: src, logger: logger}
}

// Sync brings the database up to date with the directory.
func (c *Catalog) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Sync(c.db, c.src, c.logger)
}

// Find syncs the catalog and returns up to limit notes matching query.
func (c *Catalog) Find(query string, limit int) ([]SearchResult, error) {
	if err := c.Sync(); err != nil {
		return nil, fmt.Errorf("index: sync before find: %w", err)
	}
	return c.db.Search(query, limit)
}
