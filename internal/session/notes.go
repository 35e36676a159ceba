package session

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/notestore"
	"github.com/starford/scribe/internal/stats"
)

// save writes the note. With a name it always writes to that name; without
// one it writes only pending changes, to the backing file or a new
// timestamped note.
func (s *Session) save(name string) (Reply, error) {
	if name == "" {
		r, err := s.saveCurrent()
		if err == nil && !r.Failed() {
			r.info("  use :list to view the note")
		}
		return r, err
	}

	path, err := s.store.Save(notestore.FormatContent(s.content), s.tags, name)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidName) {
			return failure("invalid note name: " + name), nil
		}
		return Reply{}, err
	}
	s.saved(path)
	r := success("saved as " + filepath.Base(path))
	s.tagLine(&r)
	return r, nil
}

func (s *Session) saveCurrent() (Reply, error) {
	if !s.modified {
		return failure("no changes to save"), nil
	}
	body := notestore.FormatContent(s.content)
	path := s.currentFile
	var err error
	if path != "" {
		err = s.store.SaveTo(path, body, s.tags)
	} else {
		path, err = s.store.Save(body, s.tags, "")
	}
	if err != nil {
		return Reply{}, err
	}
	s.saved(path)
	r := success("saved to " + filepath.Base(path))
	s.tagLine(&r)
	return r, nil
}

func (s *Session) saved(path string) {
	s.currentFile = path
	s.modified = false
	s.stats.Invalidate()
	s.logger.Info("note saved",
		slog.String("path", path),
		slog.Int("tags", len(s.tags)))
}

func (s *Session) load(name string) (Reply, error) {
	if s.modified {
		var r Reply
		r.fail("current note has unsaved changes")
		r.info("    save first with :save or discard with :n! then :load")
		return r, nil
	}
	note, err := s.store.Load(name)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return failure("file not found: " + name), nil
	case errors.Is(err, apperr.ErrInvalidName):
		return failure("invalid note name: " + name), nil
	case err != nil:
		return Reply{}, err
	}

	s.content = note.Body
	s.tags = normalizeTags(note.Tags)
	s.currentFile = note.Path
	s.modified = false
	s.stats.Invalidate()
	s.logger.Info("note loaded", slog.String("path", note.Path))

	r := success("loaded " + filepath.Base(note.Path))
	s.tagLine(&r)
	return r, nil
}

func (s *Session) newNote(force bool) Reply {
	if s.modified && !force {
		var r Reply
		r.fail("note has unsaved changes")
		r.info("    use :n! to start new without saving, or :save first")
		return r
	}
	s.content = ""
	s.tags = nil
	s.currentFile = ""
	s.modified = false
	s.stats.Invalidate()
	s.logger.Info("new note", slog.Bool("forced", force))
	return success("started new note")
}

func (s *Session) addTag(name string) Reply {
	tag := strings.ToLower(name)
	if slices.Contains(s.tags, tag) {
		return failure("tag already exists: " + tag)
	}
	s.tags = append(s.tags, tag)
	s.touch()
	return success("added tag: " + tag)
}

// normalizeTags lowercases tags and drops repeats, keeping first-seen order.
func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.ToLower(t)
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Session) tagLine(r *Reply) {
	if len(s.tags) > 0 {
		r.info("    tags: " + strings.Join(s.tags, ", "))
	}
}

func (s *Session) listTags() (Reply, error) {
	counts, err := s.store.AllTags(s.tags)
	if err != nil {
		return Reply{}, err
	}
	if counts.Len() == 0 {
		return failure("no tags found"), nil
	}
	var r Reply
	r.info("available tags:")
	r.info(rule())
	for _, tag := range counts.Sorted() {
		r.info(fmt.Sprintf("  %s (%d notes)", tag, counts.Count(tag)))
	}
	r.info(rule())
	return r, nil
}

func (s *Session) listByTag(tag string) (Reply, error) {
	names, err := s.store.FindByTag(tag)
	if err != nil {
		return Reply{}, err
	}
	var r Reply
	r.info(fmt.Sprintf("notes tagged with '%s':", tag))
	r.info(rule())
	if len(names) == 0 {
		r.fail("no notes found with tag: " + tag)
	}
	for _, n := range names {
		r.info("  " + n)
	}
	r.info(rule())
	return r, nil
}

func (s *Session) listFiles() (Reply, error) {
	notes, err := s.store.ListSaved()
	if err != nil {
		return Reply{}, err
	}
	var r Reply
	r.info("saved notes:")
	r.info(rule())
	if len(notes) == 0 {
		r.fail("no saved notes found")
		r.info(rule())
		return r, nil
	}
	width := 0
	for _, n := range notes {
		width = max(width, len(n.Name))
	}
	for i, n := range notes {
		line := fmt.Sprintf("%2d. %-*s (%s)", i+1, width, n.Name, n.ModTime.Format("2006-01-02 15:04"))
		if len(n.Tags) > 0 {
			line += " [" + strings.Join(n.Tags, ", ") + "]"
		}
		r.info(line)
	}
	r.info(rule())
	r.info("type ':load [name]' to load a note")
	r.info("type ':save [name]' to save current note with a specific name")
	return r, nil
}

func (s *Session) search(term string) Reply {
	var r Reply
	matches := 0
	for i, line := range splitLines(s.content) {
		if !strings.Contains(line, term) {
			continue
		}
		if matches == 0 {
			r.info(fmt.Sprintf("search results for '%s':", term))
			r.info(rule())
		}
		matches++
		r.info(fmt.Sprintf("%4d: %s", i+1, line))
	}
	if matches == 0 {
		return failure(fmt.Sprintf("no matches found for '%s'", term))
	}
	r.info(rule())
	r.info(fmt.Sprintf("found %d matching line(s)", matches))
	return r
}

func (s *Session) find(query string) (Reply, error) {
	if s.finder == nil {
		return failure("index disabled"), nil
	}
	hits, err := s.finder.Find(query, findLimit)
	if err != nil {
		return Reply{}, err
	}
	if len(hits) == 0 {
		return failure(fmt.Sprintf("no saved notes match '%s'", query)), nil
	}
	var r Reply
	r.info(fmt.Sprintf("saved notes matching '%s':", query))
	r.info(rule())
	for _, h := range hits {
		r.info(fmt.Sprintf("  %s: %s", h.Name, oneLine(h.Snippet)))
	}
	r.info(rule())
	return r, nil
}

func (s *Session) list() Reply {
	if s.content == "" {
		return failure("note is empty")
	}
	var r Reply
	r.info("current note:")
	r.info(rule())
	for _, line := range splitLines(s.content) {
		r.info(line)
	}
	if len(s.tags) > 0 {
		r.info("tags: " + strings.Join(s.tags, ", "))
	}
	r.info(rule())
	return r
}

func (s *Session) showStats() (Reply, error) {
	snap, err := s.stats.Get(func() (stats.Snapshot, error) {
		s.logger.Debug("computing stats")
		return stats.Compute(stats.Input{
			Content:     s.content,
			CurrentFile: s.currentFile,
			Tags:        s.tags,
		}, s.store)
	})
	if err != nil {
		return Reply{}, err
	}
	var name string
	if s.currentFile != "" {
		name = filepath.Base(s.currentFile)
	}
	var r Reply
	for _, line := range snap.Report(name) {
		r.info(line)
	}
	return r, nil
}

func (s *Session) quit() (Reply, error) {
	var r Reply
	if s.modified {
		saved, err := s.saveCurrent()
		if err != nil {
			return Reply{}, fmt.Errorf("session: save before quit: %w", err)
		}
		r.Lines = append(r.Lines, saved.Lines...)
	}
	r.ok("ciao.")
	r.Quit = true
	return r, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
