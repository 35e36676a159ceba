// Package session implements the editor session: the single mutable note
// buffer and the state machine that interprets parsed commands against it.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/starford/scribe/internal/command"
	"github.com/starford/scribe/internal/index"
	"github.com/starford/scribe/internal/notestore"
	"github.com/starford/scribe/internal/stats"
)

// LineReader supplies replacement text while editing a single line.
// initial is the current text of the line; implementations return it
// unchanged when the user accepts it as is.
type LineReader interface {
	ReadLine(ctx context.Context, prompt, initial string) (string, error)
}

// Finder searches the saved notes.
type Finder interface {
	Find(query string, limit int) ([]index.SearchResult, error)
}

// findLimit caps the number of :find hits shown.
const findLimit = 20

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLineReader sets the collaborator used by :line.
func WithLineReader(r LineReader) Option {
	return func(s *Session) {
		s.lines = r
	}
}

// WithFinder enables :find over the saved notes.
func WithFinder(f Finder) Option {
	return func(s *Session) {
		s.finder = f
	}
}

// Session is the editor state: the note buffer, its tags, the backing file,
// the input mode, and the statistics cache.
//
// A Session is not safe for concurrent use, except for InvalidateStats.
type Session struct {
	store  *notestore.Store
	lines  LineReader
	finder Finder
	logger *slog.Logger

	content     string
	tags        []string
	currentFile string
	modified    bool
	state       state
	stats       *stats.Cache
}

// New creates an empty session backed by store.
func New(store *notestore.Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		logger: slog.Default(),
		state:  normal{},
		stats:  stats.NewCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the current input mode.
func (s *Session) Mode() command.Mode { return s.state.mode() }

// Content returns the note body.
func (s *Session) Content() string { return s.content }

// Tags returns a copy of the note tags in insertion order.
func (s *Session) Tags() []string { return append([]string(nil), s.tags...) }

// CurrentFile returns the backing file path, or "" if never saved.
func (s *Session) CurrentFile() string { return s.currentFile }

// Modified reports unsaved changes to content or tags.
func (s *Session) Modified() bool { return s.modified }

// InvalidateStats marks the cached statistics stale. Safe for concurrent use.
func (s *Session) InvalidateStats() { s.stats.Invalidate() }

// Execute applies cmd to the session. Problems the user can fix are reported
// as failure lines in the Reply; only I/O errors are returned.
func (s *Session) Execute(ctx context.Context, cmd command.Command) (Reply, error) {
	s.logger.Debug("execute",
		slog.String("command", commandName(cmd)),
		slog.String("mode", s.Mode().String()))

	if _, ok := s.state.(*multiLine); ok {
		switch cmd.(type) {
		case command.Write, command.ToggleMultiLine:
		default:
			return failure("finish multi-line input first (" + command.ToggleToken + ")"), nil
		}
	}

	switch c := cmd.(type) {
	case command.Write:
		return s.write(c.Text), nil
	case command.ToggleMultiLine:
		return s.toggleMultiLine(), nil
	case command.Edit:
		return s.enterEdit(), nil
	case command.EditLine:
		return s.editLine(ctx, c.Line)
	case command.EditCommit:
		return s.commitEdit(), nil
	case command.EditCancel:
		return s.cancelEdit(), nil
	case command.Save:
		return s.save(c.Name)
	case command.Load:
		return s.load(c.Name)
	case command.NewNote:
		return s.newNote(c.Force), nil
	case command.Tag:
		return s.addTag(c.Name), nil
	case command.ListTags:
		return s.listTags()
	case command.ListByTag:
		return s.listByTag(c.Tag)
	case command.ListFiles:
		return s.listFiles()
	case command.Search:
		return s.search(c.Term), nil
	case command.Find:
		return s.find(c.Query)
	case command.List:
		return s.list(), nil
	case command.Stats:
		return s.showStats()
	case command.Help:
		return helpReply(), nil
	case command.Quit:
		return s.quit()
	case command.Invalid:
		var r Reply
		r.fail("invalid command: " + c.Reason)
		r.info("    use :help to see available commands")
		return r, nil
	default:
		return Reply{}, fmt.Errorf("session: unhandled command %T", cmd)
	}
}

// touch records a mutation of content or tags.
func (s *Session) touch() {
	s.modified = true
	s.stats.Invalidate()
}

func commandName(cmd command.Command) string {
	return strings.ToLower(reflect.TypeOf(cmd).Name())
}
