// Package shell runs the interactive loop: it reads raw input lines, hands
// them to the session, and renders the replies.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/scribe/internal/session"
	"github.com/starford/scribe/internal/ui"
)

// maxLine bounds a single input line.
const maxLine = 1 << 20

type input struct {
	text string
	err  error
}

// Console is the terminal side of a session: a line source and a renderer.
// It also serves as the session's LineReader, sharing one input stream with
// the main loop.
type Console struct {
	in     io.Reader
	out    io.Writer
	styled bool

	start sync.Once
	lines chan input
}

// NewConsole reads lines from in and writes to out. Output is styled only
// when out is a terminal.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:     in,
		out:    out,
		styled: ui.IsTerminal(out),
		lines:  make(chan input),
	}
}

// ReadLine shows the current text of a line and reads its replacement.
// An empty reply keeps initial.
func (c *Console) ReadLine(ctx context.Context, prompt, initial string) (string, error) {
	c.println(prompt)
	c.println(c.muted("current: ") + initial)
	text, err := c.next(ctx, "new: ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return initial, nil
	}
	return text, nil
}

// Render writes every line of r with its status marker.
func (c *Console) Render(r session.Reply) {
	for _, l := range r.Lines {
		switch l.Kind {
		case session.Success:
			c.println(c.marker("[+]", ui.Success) + " " + l.Text)
		case session.Failure:
			c.println(c.marker("[-]", ui.Failure) + " " + l.Text)
		default:
			c.println(l.Text)
		}
	}
}

// next prints prompt and waits for the next input line. It returns io.EOF
// at end of input and ctx.Err() when ctx is cancelled first.
func (c *Console) next(ctx context.Context, prompt string) (string, error) {
	c.start.Do(func() { go c.scan() })
	fmt.Fprint(c.out, c.muted(prompt))
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case in, ok := <-c.lines:
		if !ok {
			return "", io.EOF
		}
		return in.text, in.err
	}
}

func (c *Console) scan() {
	defer close(c.lines)
	sc := bufio.NewScanner(c.in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		c.lines <- input{text: sc.Text()}
	}
	if err := sc.Err(); err != nil {
		c.lines <- input{err: err}
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) muted(s string) string {
	if !c.styled {
		return s
	}
	return ui.Muted.Render(s)
}

func (c *Console) marker(s string, style lipgloss.Style) string {
	if !c.styled {
		return s
	}
	return style.Render(s)
}
