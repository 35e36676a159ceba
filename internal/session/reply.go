package session

import "strings"

// Kind classifies a reply line.
type Kind int

const (
	Info Kind = iota
	Success
	Failure
)

// Line is one line of output.
type Line struct {
	Kind Kind
	Text string
}

// Reply is the outcome of one command.
type Reply struct {
	Lines []Line
	// Quit asks the caller to end the input loop.
	Quit bool
}

// Failed reports whether any line is a failure.
func (r Reply) Failed() bool {
	for _, l := range r.Lines {
		if l.Kind == Failure {
			return true
		}
	}
	return false
}

// String joins the line texts, mainly for tests and logs.
func (r Reply) String() string {
	texts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		texts[i] = l.Text
	}
	return strings.Join(texts, "\n")
}

func (r *Reply) add(kind Kind, text string) { r.Lines = append(r.Lines, Line{Kind: kind, Text: text}) }
func (r *Reply) info(text string)           { r.add(Info, text) }
func (r *Reply) ok(text string)             { r.add(Success, text) }
func (r *Reply) fail(text string)           { r.add(Failure, text) }

func failure(text string) Reply {
	var r Reply
	r.fail(text)
	return r
}

func success(text string) Reply {
	var r Reply
	r.ok(text)
	return r
}

const ruleWidth = 40

func rule() string { return strings.Repeat("=", ruleWidth) }
