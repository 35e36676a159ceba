package command

import (
	"strconv"
	"strings"
)

const (
	// Prefix marks a line as a command.
	Prefix = ":"
	// ToggleToken starts and ends multi-line input.
	ToggleToken = Prefix + "ml"
)

// Parse interprets one raw input line for a session in mode. It never fails;
// unusable input becomes Invalid.
func Parse(raw string, mode Mode) Command {
	input := strings.TrimSpace(raw)

	if mode == MultiLine {
		if input == ToggleToken {
			return ToggleMultiLine{}
		}
		return Write{Text: input}
	}

	rest, ok := strings.CutPrefix(input, Prefix)
	if !ok {
		return Write{Text: input}
	}

	parts := strings.Fields(rest)
	if len(parts) == 0 {
		return Invalid{Reason: input}
	}
	args := parts[1:]

	switch parts[0] {
	case "h", "help":
		return Help{}
	case "q", "quit":
		return Quit{}
	case "l", "list":
		return List{}
	case "ls", "files", "list-files":
		return ListFiles{}
	case "ml", "toggle-multi-line":
		return ToggleMultiLine{}
	case "n", "new", "new-note":
		return NewNote{}
	case "n!", "new!", "new-note!":
		return NewNote{Force: true}
	case "stats":
		return Stats{}
	case "tags":
		return ListTags{}
	case "edit":
		return Edit{}
	case "line":
		if len(args) == 0 {
			return Invalid{Reason: "line number required"}
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Invalid{Reason: "invalid line number"}
		}
		return EditLine{Line: n}
	case "tag":
		if len(args) == 0 {
			return Invalid{Reason: "tag name required"}
		}
		return Tag{Name: args[0]}
	case "tagged":
		if len(args) == 0 {
			return Invalid{Reason: "tag name required"}
		}
		return ListByTag{Tag: args[0]}
	case "load":
		if len(args) == 0 {
			return Invalid{Reason: "filename required"}
		}
		return Load{Name: args[0]}
	case "search":
		if len(args) == 0 {
			return Invalid{Reason: "search term required"}
		}
		return Search{Term: strings.Join(args, " ")}
	case "find":
		if len(args) == 0 {
			return Invalid{Reason: "search term required"}
		}
		return Find{Query: strings.Join(args, " ")}
	case "save":
		if mode == LineEdit {
			return EditCommit{}
		}
		return Save{Name: strings.Join(args, "_")}
	case "cancel":
		if mode == LineEdit {
			return EditCancel{}
		}
	}
	return Invalid{Reason: input}
}
