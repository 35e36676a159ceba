// Package notestore persists notes as individual Markdown files with an
// optional tag frontmatter block.
package notestore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/starford/scribe/internal/apperr"
)

// Extension is the file extension of every note file.
const Extension = ".md"

// autoNameLayout formats the timestamp of generated note names.
const autoNameLayout = "20060102_150405"

// Note is a loaded note file.
type Note struct {
	Body string
	Tags []string
	Path string
}

// Entry describes one note file found by a directory scan.
type Entry struct {
	Name     string
	Path     string
	Size     int64
	ModTime  time.Time
	Tags     []string
	Checksum string
}

// Store reads and writes note files in a single flat directory.
type Store struct {
	root string // absolute path to notes directory
	now  func() time.Time
}

// New creates a Store rooted at dir, creating the directory if absent.
func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("notestore: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("notestore: create root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("notestore: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("notestore: root is not a directory: %s", abs)
	}
	return &Store{root: abs, now: time.Now}, nil
}

// Root returns the absolute notes directory.
func (s *Store) Root() string {
	return s.root
}

// FileName maps a note name to its file name, appending Extension if absent.
// Names may not contain path separators.
func FileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	stem := strings.TrimSuffix(name, Extension)
	if stem == "" || stem == "." || stem == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("notestore: %q: %w", name, apperr.ErrInvalidName)
	}
	return stem + Extension, nil
}

// Path resolves a note name to an absolute path inside the notes directory.
func (s *Store) Path(name string) (string, error) {
	file, err := FileName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, file), nil
}

// AutoName returns a timestamped note name for the current time.
func (s *Store) AutoName() string {
	return "note_" + s.now().Format(autoNameLayout)
}

// Save writes body and tags to the note called name, or to a new timestamped
// note when name is empty, and returns the file path.
func (s *Store) Save(body string, tags []string, name string) (string, error) {
	if name == "" {
		name = s.AutoName()
	}
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := writeFile(path, Encode(body, tags)); err != nil {
		return "", err
	}
	return path, nil
}

// SaveTo rewrites the note file at path, an already resolved location such
// as the path returned by Save or Load. The name is not re-derived, so a
// file called "a.md.md" stays "a.md.md".
func (s *Store) SaveTo(path, body string, tags []string) error {
	return writeFile(path, Encode(body, tags))
}

// Load reads the note called name.
func (s *Store) Load(name string) (Note, error) {
	path, err := s.Path(name)
	if err != nil {
		return Note{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Note{}, fmt.Errorf("notestore: file not found: %s: %w", name, apperr.ErrNotFound)
		}
		return Note{}, fmt.Errorf("notestore: read %s: %w", name, err)
	}
	body, tags := Decode(data)
	return Note{Body: body, Tags: tags, Path: path}, nil
}

// Read returns the raw bytes of a note file.
func (s *Store) Read(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("notestore: read %s: %w", name, err)
	}
	return data, nil
}

// Scan returns every note file in directory (file name) order. Files that
// cannot be read are reported without tags or checksum.
func (s *Store) Scan() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("notestore: scan: %w", err)
	}
	out := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		if d.IsDir() || !strings.HasSuffix(d.Name(), Extension) {
			continue
		}
		info, err := d.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		e := Entry{
			Name:    d.Name(),
			Path:    filepath.Join(s.root, d.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}
		if data, err := os.ReadFile(e.Path); err == nil {
			e.Tags = decodeTags(data)
			e.Checksum = Checksum(data)
		}
		out = append(out, e)
	}
	return out, nil
}

// ListSaved returns every note file, most recently modified first.
func (s *Store) ListSaved() ([]Entry, error) {
	entries, err := s.Scan()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// FindByTag returns the file names of notes carrying tag, compared
// case-insensitively.
func (s *Store) FindByTag(tag string) ([]string, error) {
	entries, err := s.Scan()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		for _, t := range e.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, e.Name)
				break
			}
		}
	}
	return out, nil
}

// AllTags folds extra (typically the unsaved session tags) and the tags of
// every saved note into one frequency table.
func (s *Store) AllTags(extra []string) (*TagCounts, error) {
	entries, err := s.Scan()
	if err != nil {
		return nil, err
	}
	counts := NewTagCounts()
	for _, t := range extra {
		counts.Add(t)
	}
	for _, e := range entries {
		for _, t := range e.Tags {
			counts.Add(t)
		}
	}
	return counts, nil
}

// writeFile atomically writes content: tmp file → fsync → rename.
func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".scribe-tmp-*")
	if err != nil {
		return fmt.Errorf("notestore: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("notestore: chmod temp: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("notestore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("notestore: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("notestore: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("notestore: rename: %w", err)
	}
	success = true
	return nil
}

// Checksum returns the hex SHA-256 of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
