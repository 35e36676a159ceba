//go:build !sqlite_fts5

package index

import (
	"testing"
	"time"
)

func TestFallbackSearch_AllWordsCaseInsensitive(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Name: "both.md", Checksum: "1", UpdatedAt: now}, "Kubernetes upgrade notes")
	_ = db.UpsertNote(NoteRow{Name: "one.md", Checksum: "2", UpdatedAt: now}, "kubernetes only")

	results, err := db.Search("kubernetes UPGRADE", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Name != "both.md" {
		t.Errorf("results = %+v, want both.md only", results)
	}
}

func TestFallbackSearch_MatchesTagsAndName(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Name: "plain.md", Checksum: "1", Tags: []string{"recipes"}, UpdatedAt: now}, "flour")
	_ = db.UpsertNote(NoteRow{Name: "recipes-index.md", Checksum: "2", UpdatedAt: now}, "list")

	results, _ := db.Search("recipes", 10)
	if len(results) != 2 {
		t.Errorf("results = %+v, want 2", results)
	}
}

func TestFallbackSearch_WildcardsAreLiteral(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Name: "a.md", Checksum: "1", UpdatedAt: time.Now()}, "plain text")

	results, _ := db.Search("%", 10)
	if len(results) != 0 {
		t.Errorf("%% matched as wildcard: %+v", results)
	}
}

func TestFallbackSearch_RecentFirst(t *testing.T) {
	db := testDB(t)
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = db.UpsertNote(NoteRow{Name: "old.md", Checksum: "1", UpdatedAt: old}, "shared")
	_ = db.UpsertNote(NoteRow{Name: "new.md", Checksum: "2", UpdatedAt: old.Add(time.Hour)}, "shared")

	results, _ := db.Search("shared", 1)
	if len(results) != 1 || results[0].Name != "new.md" {
		t.Errorf("results = %+v, want new.md", results)
	}
}
