package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/starford/scribe/internal/command"
)

// state is the input mode together with its payload. Exactly one is active.
type state interface {
	mode() command.Mode
}

type normal struct{}

// multiLine accumulates a block that is appended to the note on commit.
type multiLine struct {
	pending strings.Builder
}

// lineEdit holds a line snapshot of the note, independent of the note until
// committed.
type lineEdit struct {
	buffer []string
}

func (normal) mode() command.Mode     { return command.Normal }
func (*multiLine) mode() command.Mode { return command.MultiLine }
func (*lineEdit) mode() command.Mode  { return command.LineEdit }

const finishEditing = "finish editing first (:save or :cancel)"

// Pending returns the uncommitted multi-line block, if any.
func (s *Session) Pending() string {
	if ml, ok := s.state.(*multiLine); ok {
		return ml.pending.String()
	}
	return ""
}

// EditBuffer returns a copy of the line-edit buffer, or nil outside line-edit.
func (s *Session) EditBuffer() []string {
	if le, ok := s.state.(*lineEdit); ok {
		return append([]string(nil), le.buffer...)
	}
	return nil
}

func (s *Session) write(text string) Reply {
	switch st := s.state.(type) {
	case *multiLine:
		st.pending.WriteString(text)
		st.pending.WriteString("\n")
		return Reply{}
	case *lineEdit:
		return failure(finishEditing)
	}
	if text == "" {
		return Reply{}
	}
	s.content += text + "\n"
	s.touch()
	return success("added")
}

func (s *Session) toggleMultiLine() Reply {
	switch st := s.state.(type) {
	case *multiLine:
		block := st.pending.String()
		s.content += block
		s.touch()
		s.state = normal{}
		return success(fmt.Sprintf("multi-line input completed (%d lines)", len(splitLines(block))))
	case *lineEdit:
		return failure(finishEditing)
	}
	s.state = &multiLine{}
	var r Reply
	r.info("multi-line mode started:")
	r.info("  use " + command.ToggleToken + " again to finish")
	r.info("---")
	return r
}

func (s *Session) enterEdit() Reply {
	if _, ok := s.state.(*lineEdit); ok {
		return failure("already in edit mode")
	}
	le := &lineEdit{buffer: splitLines(s.content)}
	s.state = le

	var r Reply
	r.info("edit mode commands:")
	r.info("  :line N      - edit line N")
	r.info("  :save        - save changes")
	r.info("  :cancel      - discard changes")
	numbered(&r, le.buffer)
	return r
}

func (s *Session) editLine(ctx context.Context, n int) (Reply, error) {
	le, ok := s.state.(*lineEdit)
	if !ok {
		return failure("not in edit mode. use :edit"), nil
	}
	if n < 1 || n > len(le.buffer) {
		return failure(fmt.Sprintf("invalid line: %d (buffer has %d lines)", n, len(le.buffer))), nil
	}
	if s.lines == nil {
		return failure("line editing is not available"), nil
	}

	idx := n - 1
	text, err := s.lines.ReadLine(ctx, fmt.Sprintf("editing line %d:", n), le.buffer[idx])
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return failure("edit cancelled"), nil
		}
		return Reply{}, fmt.Errorf("session: read line %d: %w", n, err)
	}
	le.buffer[idx] = text

	var r Reply
	numbered(&r, le.buffer)
	return r, nil
}

func (s *Session) commitEdit() Reply {
	le, ok := s.state.(*lineEdit)
	if !ok {
		return failure("not in edit mode")
	}
	s.content = strings.Join(le.buffer, "\n")
	s.touch()
	s.state = normal{}
	s.logger.Debug("edit committed", slog.Int("lines", len(le.buffer)))
	return success("changes saved")
}

func (s *Session) cancelEdit() Reply {
	if _, ok := s.state.(*lineEdit); !ok {
		return failure("not in edit mode")
	}
	s.state = normal{}
	var r Reply
	r.info("edit cancelled, changes discarded")
	return r
}

func numbered(r *Reply, buffer []string) {
	r.info("")
	r.info("current content:")
	r.info(rule())
	for i, line := range buffer {
		r.info(fmt.Sprintf("%4d: %s", i+1, line))
	}
	r.info(rule())
}

// splitLines splits s into lines without terminators; a trailing newline
// does not produce an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
