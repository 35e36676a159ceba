package session

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/scribe/internal/command"
	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/notestore"
	"github.com/starford/scribe/internal/testutil"
)

type scriptedReader struct {
	replies []string
	err     error
	prompts []string
}

func (r *scriptedReader) ReadLine(_ context.Context, prompt, initial string) (string, error) {
	r.prompts = append(r.prompts, prompt+"|"+initial)
	if r.err != nil {
		return "", r.err
	}
	if len(r.replies) == 0 {
		return initial, nil
	}
	next := r.replies[0]
	r.replies = r.replies[1:]
	return next, nil
}

func testSession(t *testing.T, opts ...Option) (*Session, *notestore.Store) {
	t.Helper()
	store := testutil.TestStore(t)
	opts = append([]Option{WithLogger(testutil.DiscardLogger())}, opts...)
	return New(store, opts...), store
}

// run parses input in the session's current mode and executes it.
func run(t *testing.T, s *Session, input string) Reply {
	t.Helper()
	r, err := s.Execute(context.Background(), command.Parse(input, s.Mode()))
	if err != nil {
		t.Fatalf("Execute(%q): %v", input, err)
	}
	return r
}

func TestWrite_AppendsAndMarksModified(t *testing.T) {
	s, _ := testSession(t)
	r := run(t, s, "first line")
	if r.Failed() || s.Content() != "first line\n" || !s.Modified() {
		t.Errorf("content = %q modified = %v reply = %q", s.Content(), s.Modified(), r)
	}
}

func TestWrite_EmptyIsNoop(t *testing.T) {
	s, _ := testSession(t)
	r := run(t, s, "   ")
	if len(r.Lines) != 0 || s.Modified() || s.Content() != "" {
		t.Errorf("empty write changed state: %q", r)
	}
}

func TestMultiLine_RoundTrip(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, "before")
	run(t, s, ":ml")
	if s.Mode() != command.MultiLine {
		t.Fatalf("mode = %s, want multi-line", s.Mode())
	}
	run(t, s, "a")
	run(t, s, ":save not-a-command")
	run(t, s, "b")
	if s.Content() != "before\n" {
		t.Errorf("content touched before commit: %q", s.Content())
	}
	r := run(t, s, ":ml")
	if s.Mode() != command.Normal {
		t.Fatalf("mode = %s, want normal", s.Mode())
	}
	if want := "before\na\n:save not-a-command\nb\n"; s.Content() != want {
		t.Errorf("content = %q, want %q", s.Content(), want)
	}
	if !strings.Contains(r.String(), "(3 lines)") {
		t.Errorf("reply = %q", r)
	}
}

func TestMultiLine_PendingDoesNotMarkModified(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, ":ml")
	run(t, s, "draft")
	if s.Modified() {
		t.Error("pending block marked note modified")
	}
	if s.Pending() != "draft\n" {
		t.Errorf("pending = %q", s.Pending())
	}
}

func TestMultiLine_RejectsOtherCommands(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, ":ml")
	r, err := s.Execute(context.Background(), command.Edit{})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Failed() || s.Mode() != command.MultiLine {
		t.Errorf("edit inside multi-line: reply %q mode %s", r, s.Mode())
	}
}

func TestLineEdit_ReplaceAndCommit(t *testing.T) {
	reader := &scriptedReader{replies: []string{"Y"}}
	s, _ := testSession(t, WithLineReader(reader))
	run(t, s, "x")
	run(t, s, "y")
	run(t, s, "z")

	run(t, s, ":edit")
	if s.Mode() != command.LineEdit {
		t.Fatalf("mode = %s", s.Mode())
	}
	if got := s.EditBuffer(); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Fatalf("buffer = %v", got)
	}
	run(t, s, ":line 2")
	if got := reader.prompts; len(got) != 1 || !strings.HasSuffix(got[0], "|y") {
		t.Errorf("reader seeded with %v", got)
	}
	if s.Content() != "x\ny\nz\n" {
		t.Errorf("content changed before commit: %q", s.Content())
	}
	run(t, s, ":save")
	if s.Content() != "x\nY\nz" {
		t.Errorf("content = %q, want %q", s.Content(), "x\nY\nz")
	}
	if s.Mode() != command.Normal || !s.Modified() {
		t.Errorf("mode = %s modified = %v", s.Mode(), s.Modified())
	}
	if entries, _ := os.ReadDir(s.store.Root()); len(entries) != 0 {
		t.Error(":save in edit mode wrote a note file")
	}
}

func TestLineEdit_OutOfRangeIsNoop(t *testing.T) {
	reader := &scriptedReader{}
	s, _ := testSession(t, WithLineReader(reader))
	for _, l := range []string{"x", "y", "z"} {
		run(t, s, l)
	}
	run(t, s, ":edit")
	r := run(t, s, ":line 5")
	if !r.Failed() {
		t.Errorf("expected failure reply, got %q", r)
	}
	if got := s.EditBuffer(); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Errorf("buffer = %v", got)
	}
	if len(reader.prompts) != 0 {
		t.Error("reader consulted for out-of-range line")
	}
	if s.Mode() != command.LineEdit {
		t.Errorf("mode = %s", s.Mode())
	}
}

func TestLineEdit_Cancel(t *testing.T) {
	s, _ := testSession(t, WithLineReader(&scriptedReader{replies: []string{"changed"}}))
	run(t, s, "keep")
	run(t, s, ":n!")
	run(t, s, "keep")
	modified := s.Modified()
	run(t, s, ":edit")
	run(t, s, ":line 1")
	run(t, s, ":cancel")
	if s.Content() != "keep\n" || s.Mode() != command.Normal || s.Modified() != modified {
		t.Errorf("content = %q mode = %s", s.Content(), s.Mode())
	}
}

func TestLineEdit_ReaderEOFCancelsLine(t *testing.T) {
	s, _ := testSession(t, WithLineReader(&scriptedReader{err: io.EOF}))
	run(t, s, "x")
	run(t, s, ":edit")
	r := run(t, s, ":line 1")
	if !r.Failed() || !reflect.DeepEqual(s.EditBuffer(), []string{"x"}) {
		t.Errorf("reply = %q buffer = %v", r, s.EditBuffer())
	}
}

func TestLineEdit_ReaderErrorPropagates(t *testing.T) {
	s, _ := testSession(t, WithLineReader(&scriptedReader{err: errors.New("tty gone")}))
	run(t, s, "x")
	run(t, s, ":edit")
	if _, err := s.Execute(context.Background(), command.EditLine{Line: 1}); err == nil {
		t.Fatal("expected reader error")
	}
}

func TestLineEdit_CommandsOutsideEditMode(t *testing.T) {
	s, _ := testSession(t)
	for _, cmd := range []command.Command{command.EditLine{Line: 1}, command.EditCommit{}, command.EditCancel{}} {
		r, err := s.Execute(context.Background(), cmd)
		if err != nil {
			t.Fatal(err)
		}
		if !r.Failed() || !strings.Contains(r.String(), "not in edit mode") {
			t.Errorf("%T: reply = %q", cmd, r)
		}
	}
	if s.Modified() {
		t.Error("no-op commands modified the note")
	}
}

func TestLineEdit_WriteRejected(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, "x")
	run(t, s, ":edit")
	r := run(t, s, "more text")
	if !r.Failed() || s.Content() != "x\n" {
		t.Errorf("reply = %q content = %q", r, s.Content())
	}
	if r := run(t, s, ":edit"); !r.Failed() {
		t.Errorf("re-entering edit mode: %q", r)
	}
}

func TestTag_LowercasesAndRejectsDuplicates(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, ":tag Work")
	if !reflect.DeepEqual(s.Tags(), []string{"work"}) || !s.Modified() {
		t.Fatalf("tags = %v modified = %v", s.Tags(), s.Modified())
	}

	s.modified = false
	r := run(t, s, ":tag WORK")
	if !r.Failed() {
		t.Errorf("duplicate accepted: %q", r)
	}
	if !reflect.DeepEqual(s.Tags(), []string{"work"}) || s.Modified() {
		t.Errorf("duplicate changed state: tags = %v modified = %v", s.Tags(), s.Modified())
	}

	run(t, s, ":tag home")
	if !reflect.DeepEqual(s.Tags(), []string{"work", "home"}) {
		t.Errorf("tags = %v, insertion order expected", s.Tags())
	}
}

func TestNewNote_RefusedWhenModified(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, "unsaved")
	r := run(t, s, ":n")
	if !r.Failed() || s.Content() != "unsaved\n" {
		t.Errorf("reply = %q content = %q", r, s.Content())
	}
	run(t, s, ":tag x")
	run(t, s, ":n!")
	if s.Content() != "" || len(s.Tags()) != 0 || s.Modified() || s.CurrentFile() != "" {
		t.Errorf("force new left state: %q %v %v %q", s.Content(), s.Tags(), s.Modified(), s.CurrentFile())
	}
}

func TestSave_NoChanges(t *testing.T) {
	s, _ := testSession(t)
	r := run(t, s, ":save")
	if !r.Failed() || !strings.Contains(r.String(), "no changes to save") {
		t.Errorf("reply = %q", r)
	}
}

func TestSave_AutoNameThenReuseFile(t *testing.T) {
	s, store := testSession(t)
	run(t, s, "hello")
	run(t, s, ":tag Greeting")
	run(t, s, ":save")
	first := s.CurrentFile()
	if first == "" || s.Modified() {
		t.Fatalf("current file = %q modified = %v", first, s.Modified())
	}
	if !strings.HasPrefix(filepath.Base(first), "note_") {
		t.Errorf("auto name = %q", first)
	}

	run(t, s, "world")
	run(t, s, ":save")
	if s.CurrentFile() != first {
		t.Errorf("save went to %q, want %q", s.CurrentFile(), first)
	}
	n, err := store.Load(filepath.Base(first))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n.Body != "hello\nworld\n" || !reflect.DeepEqual(n.Tags, []string{"greeting"}) {
		t.Errorf("saved body %q tags %v", n.Body, n.Tags)
	}
}

func TestSave_ExplicitNameAlwaysWrites(t *testing.T) {
	s, store := testSession(t)
	r := run(t, s, ":save empty note")
	if r.Failed() {
		t.Fatalf("reply = %q", r)
	}
	if filepath.Base(s.CurrentFile()) != "empty_note.md" {
		t.Errorf("current file = %q", s.CurrentFile())
	}
	data, err := store.Read("empty_note")
	if err != nil || len(data) != 0 {
		t.Errorf("data = %q err = %v", data, err)
	}
}

func TestSave_InvalidName(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, "x")
	r := run(t, s, ":save ../escape")
	if !r.Failed() || s.CurrentFile() != "" || !s.Modified() {
		t.Errorf("reply = %q file = %q", r, s.CurrentFile())
	}
}

func TestSave_FormatsFileButNotBuffer(t *testing.T) {
	s, store := testSession(t)
	run(t, s, "- item")
	run(t, s, ":save fmt")
	if s.Content() != "- item\n" {
		t.Errorf("buffer formatted: %q", s.Content())
	}
	n, _ := store.Load("fmt")
	if n.Body != "  - item\n" {
		t.Errorf("file body = %q", n.Body)
	}
}

func TestLoad(t *testing.T) {
	s, store := testSession(t)
	_, _ = store.Save("stored body\n", []string{"a", "b"}, "stored")

	r := run(t, s, ":load stored")
	if r.Failed() {
		t.Fatalf("reply = %q", r)
	}
	if s.Content() != "stored body\n" || !reflect.DeepEqual(s.Tags(), []string{"a", "b"}) || s.Modified() {
		t.Errorf("content = %q tags = %v modified = %v", s.Content(), s.Tags(), s.Modified())
	}
	if filepath.Base(s.CurrentFile()) != "stored.md" {
		t.Errorf("current file = %q", s.CurrentFile())
	}
}

func TestLoad_RefusedWhenModified(t *testing.T) {
	s, store := testSession(t)
	_, _ = store.Save("other\n", nil, "other")
	run(t, s, "unsaved work")
	r := run(t, s, ":load other")
	if !r.Failed() || s.Content() != "unsaved work\n" {
		t.Errorf("reply = %q content = %q", r, s.Content())
	}
}

func TestLoad_NotFound(t *testing.T) {
	s, _ := testSession(t)
	r := run(t, s, ":load ghost")
	if !r.Failed() || !strings.Contains(r.String(), "file not found: ghost") {
		t.Errorf("reply = %q", r)
	}
	if s.CurrentFile() != "" {
		t.Error("state changed on not found")
	}
}

func TestStats_CachedUntilMutation(t *testing.T) {
	s, store := testSession(t)
	_, _ = store.Save("one\n", []string{"go"}, "one")

	first := run(t, s, ":stats")
	if s.stats.Dirty() {
		t.Fatal("cache dirty right after stats")
	}

	// A file written behind the session's back is not seen until invalidation.
	_, _ = store.Save("two\n", nil, "two")
	second := run(t, s, ":stats")
	if first.String() != second.String() {
		t.Errorf("stats recomputed without mutation:\n%s\n---\n%s", first, second)
	}

	run(t, s, ":tag go")
	if !s.stats.Dirty() {
		t.Fatal("tag did not invalidate stats")
	}
	third := run(t, s, ":stats")
	if !strings.Contains(third.String(), "all-time notes: 2") {
		t.Errorf("stats after mutation:\n%s", third)
	}
	if !strings.Contains(third.String(), "most used tags: go (2)") {
		t.Errorf("tag counts:\n%s", third)
	}
}

func TestStats_EveryMutationInvalidates(t *testing.T) {
	s, store := testSession(t, WithLineReader(&scriptedReader{}))
	_, _ = store.Save("loaded\n", nil, "loaded")

	mutations := [][]string{
		{"text"},
		{":tag t"},
		{":ml", "block", ":ml"},
		{":edit", ":save"},
		{":n!"},
		{":load loaded"},
		{"more", ":save"},
	}
	for _, steps := range mutations {
		run(t, s, ":stats")
		for _, in := range steps {
			run(t, s, in)
		}
		if !s.stats.Dirty() {
			t.Errorf("%v did not invalidate stats", steps)
		}
	}
}

func TestInvalidateStats_External(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, ":stats")
	s.InvalidateStats()
	if !s.stats.Dirty() {
		t.Error("InvalidateStats did not mark cache dirty")
	}
}

func TestQuit_SavesPendingChanges(t *testing.T) {
	s, store := testSession(t)
	run(t, s, "last words")
	r := run(t, s, ":q")
	if !r.Quit {
		t.Fatal("quit not signalled")
	}
	if s.Modified() || s.CurrentFile() == "" {
		t.Fatalf("not saved: modified = %v file = %q", s.Modified(), s.CurrentFile())
	}
	entries, _ := store.Scan()
	if len(entries) != 1 {
		t.Errorf("entries = %d, want 1", len(entries))
	}
}

func TestQuit_CleanSessionWritesNothing(t *testing.T) {
	s, store := testSession(t)
	r := run(t, s, ":quit")
	if !r.Quit || r.Failed() {
		t.Errorf("reply = %q", r)
	}
	if entries, _ := store.Scan(); len(entries) != 0 {
		t.Errorf("entries = %d", len(entries))
	}
}

func TestSearch(t *testing.T) {
	s, _ := testSession(t)
	run(t, s, "alpha beta")
	run(t, s, "gamma")
	run(t, s, "beta again")
	r := run(t, s, ":search beta")
	out := r.String()
	if !strings.Contains(out, "   1: alpha beta") || !strings.Contains(out, "   3: beta again") || !strings.Contains(out, "found 2 matching line(s)") {
		t.Errorf("search output:\n%s", out)
	}
	if r := run(t, s, ":search zeta"); !r.Failed() {
		t.Errorf("no-match reply = %q", r)
	}
}

func TestList(t *testing.T) {
	s, _ := testSession(t)
	if r := run(t, s, ":list"); !r.Failed() {
		t.Errorf("empty list reply = %q", r)
	}
	run(t, s, "body")
	run(t, s, ":tag x")
	out := run(t, s, ":l").String()
	if !strings.Contains(out, "body") || !strings.Contains(out, "tags: x") {
		t.Errorf("list output:\n%s", out)
	}
}

func TestListFilesAndTags(t *testing.T) {
	s, store := testSession(t)
	if r := run(t, s, ":ls"); !r.Failed() {
		t.Errorf("empty listing reply = %q", r)
	}
	if r := run(t, s, ":tags"); !r.Failed() {
		t.Errorf("empty tags reply = %q", r)
	}
	_, _ = store.Save("a\n", []string{"go"}, "alpha")
	_, _ = store.Save("b\n", []string{"go", "cli"}, "beta")
	run(t, s, ":tag draft")

	files := run(t, s, ":ls").String()
	if !strings.Contains(files, "alpha.md") || !strings.Contains(files, "[go, cli]") {
		t.Errorf("ls output:\n%s", files)
	}
	tags := run(t, s, ":tags").String()
	for _, want := range []string{"cli (1 notes)", "draft (1 notes)", "go (2 notes)"} {
		if !strings.Contains(tags, want) {
			t.Errorf("tags output missing %q:\n%s", want, tags)
		}
	}
	tagged := run(t, s, ":tagged GO").String()
	if !strings.Contains(tagged, "alpha.md") || !strings.Contains(tagged, "beta.md") {
		t.Errorf("tagged output:\n%s", tagged)
	}
	if r := run(t, s, ":tagged none"); !r.Failed() {
		t.Errorf("tagged none reply = %q", r)
	}
}

type stubFinder struct {
	hits  []index.SearchResult
	query string
}

func (f *stubFinder) Find(query string, _ int) ([]index.SearchResult, error) {
	f.query = query
	return f.hits, nil
}

func TestFind(t *testing.T) {
	s, _ := testSession(t)
	if r := run(t, s, ":find x"); !r.Failed() || !strings.Contains(r.String(), "index disabled") {
		t.Errorf("reply without finder = %q", r)
	}

	f := &stubFinder{hits: []index.SearchResult{{Name: "deploy.md", Snippet: "run\nthe   deploy"}}}
	s, _ = testSession(t, WithFinder(f))
	out := run(t, s, ":find the deploy").String()
	if f.query != "the deploy" || !strings.Contains(out, "deploy.md: run the deploy") {
		t.Errorf("query = %q output:\n%s", f.query, out)
	}
}

func TestInvalidAndHelp(t *testing.T) {
	s, _ := testSession(t)
	r := run(t, s, ":tag")
	if !r.Failed() || !strings.Contains(r.String(), "tag name required") {
		t.Errorf("reply = %q", r)
	}
	if r := run(t, s, ":help"); r.Failed() || !strings.Contains(r.String(), ":find") || !strings.Contains(r.String(), "empty input keeps it") {
		t.Errorf("help = %q", r)
	}
}

func TestFind_WithCatalog(t *testing.T) {
	store := testutil.TestStore(t)
	s := New(store, WithFinder(testutil.TestCatalog(t, store)), WithLogger(testutil.DiscardLogger()))
	run(t, s, "quarterly budget review")
	run(t, s, ":save budget")

	out := run(t, s, ":find budget").String()
	if !strings.Contains(out, "  budget.md: ") {
		t.Errorf("find output:\n%s", out)
	}
	if r := run(t, s, ":find nonexistentword"); !r.Failed() {
		t.Errorf("no-hit reply = %q", r)
	}
}

func TestSave_CurrentFileWithDoubleExtension(t *testing.T) {
	s, store := testSession(t)
	root := store.Root()
	if err := os.WriteFile(filepath.Join(root, "a.md.md"), []byte("double\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "a.md"), []byte("other note\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	run(t, s, ":load a.md.md")
	run(t, s, "edited")
	if r := run(t, s, ":save"); r.Failed() {
		t.Fatalf("save: %q", r)
	}

	if got := filepath.Base(s.CurrentFile()); got != "a.md.md" {
		t.Errorf("current file = %q, want %q", got, "a.md.md")
	}
	double, _ := os.ReadFile(filepath.Join(root, "a.md.md"))
	if want := "double\nedited\n"; string(double) != want {
		t.Errorf("a.md.md = %q, want %q", double, want)
	}
	other, _ := os.ReadFile(filepath.Join(root, "a.md"))
	if want := "other note\n"; string(other) != want {
		t.Errorf("a.md = %q, want %q", other, want)
	}
}

func TestLoad_NormalizesTags(t *testing.T) {
	s, store := testSession(t)
	data := "---\ntags: Work, work, Home\n---\nbody\n"
	if err := os.WriteFile(filepath.Join(store.Root(), "mixed.md"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	run(t, s, ":load mixed")
	if want := []string{"work", "home"}; !reflect.DeepEqual(s.Tags(), want) {
		t.Errorf("tags = %v, want %v", s.Tags(), want)
	}
	if r := run(t, s, ":tag WORK"); !r.Failed() {
		t.Errorf("duplicate accepted after load: %q", r)
	}
}
