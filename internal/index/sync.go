package index

import (
	"log/slog"
	"time"

	"github.com/starford/scribe/internal/notestore"
)

// Sync walks the notes directory and brings the index up to date:
//   - new/changed files are decoded and upserted
//   - files removed from disk are deleted from the index
func Sync(db *DB, src Source, logger *slog.Logger) error {
	entries, err := src.Scan()
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		disk[e.Name] = struct{}{}

		if e.Checksum != "" && checksums[e.Name] == e.Checksum {
			continue
		}

		data, err := src.Read(e.Name)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("name", e.Name), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, e, data); err != nil {
			logger.Warn("sync: index failed", slog.String("name", e.Name), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("name", e.Name))
		}
	}

	// Remove stale entries.
	for name := range checksums {
		if _, ok := disk[name]; !ok {
			if err := db.DeleteNote(name); err != nil {
				logger.Warn("sync: delete failed", slog.String("name", name), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("name", name))
			}
		}
	}

	return nil
}

// indexFile decodes data and upserts it into the DB.
func indexFile(db *DB, e notestore.Entry, data []byte) error {
	body, tags := notestore.Decode(data)
	updated := e.ModTime
	if updated.IsZero() {
		updated = time.Now()
	}
	row := NoteRow{
		Name:      e.Name,
		Checksum:  notestore.Checksum(data),
		Tags:      tags,
		Size:      int64(len(data)),
		UpdatedAt: updated,
	}
	return db.UpsertNote(row, body)
}
