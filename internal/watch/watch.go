// Package watch reports changes to note files made outside the session.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/scribe/internal/notestore"
)

// Kind describes what happened to a note file.
type Kind string

const (
	Created Kind = "created"
	Updated Kind = "updated"
	Deleted Kind = "deleted"
)

// EventCallback is called for every note file event.
type EventCallback func(kind Kind, name string)

// Watch starts an fsnotify watcher on dir and reports note file events to cb
// until ctx is cancelled. The notes directory is flat, so subdirectories are
// not followed.
func Watch(ctx context.Context, dir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, notestore.Extension) {
				continue
			}
			kind, ok := classify(ev.Op)
			if !ok {
				continue
			}
			logger.Debug("watcher: event", slog.String("name", name), slog.String("op", string(kind)))
			if cb != nil {
				cb(kind, name)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// classify maps an fsnotify op to a Kind. Rename fires on the old path only;
// the new path arrives as a separate Create.
func classify(op fsnotify.Op) (Kind, bool) {
	switch {
	case op&fsnotify.Create != 0:
		return Created, true
	case op&fsnotify.Write != 0:
		return Updated, true
	case op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return Deleted, true
	}
	return "", false
}
