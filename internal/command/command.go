// Package command turns one raw input line into a Command.
//
// Parsing is pure: the only state it depends on is the session Mode passed in
// by the caller. The mode decides two things. In MultiLine every line except
// the toggle token is text. In LineEdit the "save" and "cancel" tokens mean
// commit and discard of the edit buffer instead of saving the note.
package command

// Mode is the input mode of the session a line is parsed for.
type Mode int

const (
	Normal Mode = iota
	MultiLine
	LineEdit
)

func (m Mode) String() string {
	switch m {
	case MultiLine:
		return "multi-line"
	case LineEdit:
		return "line-edit"
	default:
		return "normal"
	}
}

// Command is a parsed input line. The set of implementations is closed.
type Command interface {
	command()
}

type (
	// Write appends text to the note (or to the pending multi-line block).
	Write struct{ Text string }
	// Search lists lines of the current note containing Term.
	Search struct{ Term string }
	// Find searches every saved note through the catalog.
	Find struct{ Query string }
	// List shows the current note.
	List struct{}
	// ListFiles lists saved notes.
	ListFiles struct{}
	// ToggleMultiLine starts or commits a multi-line block.
	ToggleMultiLine struct{}
	// Edit enters line-edit mode.
	Edit struct{}
	// EditLine replaces line N (1-based) of the edit buffer.
	EditLine struct{ Line int }
	// EditCommit writes the edit buffer back to the note.
	EditCommit struct{}
	// EditCancel discards the edit buffer.
	EditCancel struct{}
	// Save persists the note; an empty Name means the current or a generated name.
	Save struct{ Name string }
	// Load replaces the note with a saved one.
	Load struct{ Name string }
	// NewNote clears the note; Force skips the unsaved-changes check.
	NewNote struct{ Force bool }
	// Tag adds a tag to the note.
	Tag struct{ Name string }
	// ListTags lists every known tag with its count.
	ListTags struct{}
	// ListByTag lists saved notes carrying Tag.
	ListByTag struct{ Tag string }
	// Stats shows note and directory statistics.
	Stats struct{}
	// Help shows the command summary.
	Help struct{}
	// Quit ends the session, saving pending changes first.
	Quit struct{}
	// Invalid is any input that is not a valid command.
	Invalid struct{ Reason string }
)

func (Write) command()           {}
func (Search) command()          {}
func (Find) command()            {}
func (List) command()            {}
func (ListFiles) command()       {}
func (ToggleMultiLine) command() {}
func (Edit) command()            {}
func (EditLine) command()        {}
func (EditCommit) command()      {}
func (EditCancel) command()      {}
func (Save) command()            {}
func (Load) command()            {}
func (NewNote) command()         {}
func (Tag) command()             {}
func (ListTags) command()        {}
func (ListByTag) command()       {}
func (Stats) command()           {}
func (Help) command()            {}
func (Quit) command()            {}
func (Invalid) command()         {}
