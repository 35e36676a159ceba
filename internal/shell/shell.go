package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/starford/scribe/internal/command"
	"github.com/starford/scribe/internal/session"
)

const (
	prompt          = ":> "
	multiLinePrompt = "  "
)

// Run drives sess from c until the user quits, input ends, or ctx is
// cancelled. Ending input or cancelling discards unsaved changes; only :quit
// saves them.
func Run(ctx context.Context, c *Console, sess *session.Session, logger *slog.Logger) error {
	c.println("scribe: a simple cli note-taking tool")
	c.println("type :help for commands")
	c.println("")

	for {
		p := prompt
		if sess.Mode() == command.MultiLine {
			p = multiLinePrompt
		}
		raw, err := c.next(ctx, p)
		switch {
		case errors.Is(err, io.EOF):
			c.println("")
			c.println("end of input")
			discard(c, sess, logger)
			return nil
		case ctx.Err() != nil:
			c.println("")
			c.println("interrupted")
			discard(c, sess, logger)
			return nil
		case err != nil:
			c.println("")
			discard(c, sess, logger)
			return fmt.Errorf("shell: read input: %w", err)
		}

		reply, err := sess.Execute(ctx, command.Parse(raw, sess.Mode()))
		if err != nil {
			logger.Error("command failed",
				slog.String("mode", sess.Mode().String()),
				slog.String("error", err.Error()))
			c.Render(session.Reply{Lines: []session.Line{{Kind: session.Failure, Text: "error: " + err.Error()}}})
			continue
		}
		c.Render(reply)
		if reply.Quit {
			return nil
		}
	}
}

func discard(c *Console, sess *session.Session, logger *slog.Logger) {
	if !sess.Modified() {
		return
	}
	logger.Warn("unsaved changes discarded", slog.String("file", sess.CurrentFile()))
	c.Render(session.Reply{Lines: []session.Line{{Kind: session.Failure, Text: "unsaved changes discarded"}}})
}
