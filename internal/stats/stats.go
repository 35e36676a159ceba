// Package stats computes size and count statistics for the current note and
// the notes directory, and caches the result until the next mutation.
package stats

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/starford/scribe/internal/notestore"
)

// topTagLimit is how many tags a snapshot reports.
const topTagLimit = 2

// Scanner lists the saved notes of a directory in scan order.
type Scanner interface {
	Scan() ([]notestore.Entry, error)
}

// Input is the session state a snapshot is computed from.
type Input struct {
	Content     string
	CurrentFile string // empty when the note was never saved
	Tags        []string
}

// Snapshot is a point-in-time view of note and directory metrics.
type Snapshot struct {
	Lines int
	Words int
	Chars int

	// SizeBytes is the backing file size, or the in-memory body length when
	// the note is not saved yet.
	SizeBytes    int64
	LastModified time.Time
	Saved        bool

	TotalNotes int
	TotalBytes int64
	TopTags    []notestore.TagCount
}

// Compute builds a Snapshot from in and one scan of the notes directory.
// Every note is counted once: the backing file of the current note is skipped
// during the scan and the current note is added separately when it has a
// backing file or any content.
func Compute(in Input, scanner Scanner) (Snapshot, error) {
	snap := Snapshot{
		Lines: countLines(in.Content),
		Words: len(strings.Fields(in.Content)),
		Chars: utf8.RuneCountInString(in.Content),
	}

	snap.SizeBytes = int64(len(in.Content))
	if in.CurrentFile != "" {
		info, err := os.Stat(in.CurrentFile)
		switch {
		case err == nil:
			snap.SizeBytes = info.Size()
			snap.LastModified = info.ModTime()
			snap.Saved = true
		case errors.Is(err, os.ErrNotExist):
			// Deleted behind our back; report as unsaved.
		default:
			return Snapshot{}, fmt.Errorf("stats: stat current note: %w", err)
		}
	}

	entries, err := scanner.Scan()
	if err != nil {
		return Snapshot{}, fmt.Errorf("stats: %w", err)
	}

	counts := notestore.NewTagCounts()
	for _, t := range in.Tags {
		counts.Add(t)
	}

	current := cleanPath(in.CurrentFile)
	snap.TotalBytes = snap.SizeBytes
	for _, e := range entries {
		if current != "" && cleanPath(e.Path) == current {
			continue
		}
		snap.TotalNotes++
		snap.TotalBytes += e.Size
		for _, t := range e.Tags {
			counts.Add(t)
		}
	}
	if in.Content != "" || in.CurrentFile != "" {
		snap.TotalNotes++
	}

	snap.TopTags = counts.Top(topTagLimit)
	return snap, nil
}

// Report renders the snapshot as display lines. name is the current note's
// file name, empty when unsaved.
func (s Snapshot) Report(name string) []string {
	if name == "" {
		name = "[not saved]"
	}
	lastModified := "not saved yet"
	if s.Saved {
		lastModified = s.LastModified.Format("2006-01-02 15:04")
	}
	lines := []string{
		"Current Note: " + name,
		fmt.Sprintf("lines: %d", s.Lines),
		fmt.Sprintf("words: %d", s.Words),
		fmt.Sprintf("characters: %d", s.Chars),
		"size: " + FormatSize(s.SizeBytes),
		fmt.Sprintf("all-time notes: %d", s.TotalNotes),
		"last modified: " + lastModified,
		"total size: " + FormatSize(s.TotalBytes),
	}
	if len(s.TopTags) > 0 {
		parts := make([]string, len(s.TopTags))
		for i, tc := range s.TopTags {
			parts[i] = fmt.Sprintf("%s (%d)", tc.Tag, tc.Count)
		}
		lines = append(lines, "most used tags: "+strings.Join(parts, ", "))
	}
	return lines
}

// FormatSize renders n bytes as B, KB or MB with one decimal.
func FormatSize(n int64) string {
	const (
		kib = 1024
		mib = 1024 * kib
	)
	switch {
	case n < kib:
		return fmt.Sprintf("%dB", n)
	case n < mib:
		return fmt.Sprintf("%.1fKB", float64(n)/kib)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/mib)
	}
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}

func cleanPath(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
