package session

var helpText = []string{
	"commands:",
	"  :quit               ► exit (saves pending changes)",
	"  :n  / :n!           ► new note (with/without warning)",
	"  :save [name]        ► save note (with optional name)",
	"  :load [name]        ► load note",
	"  :ls                 ► list saved notes",
	"  :list               ► show current note",
	"  :stats              ► show note statistics",
	"  :tag [name]         ► add tag to current note",
	"    :tags             ► list all tags",
	"    :tagged [tag]     ► list notes with specific tag",
	"  :search [keyword]   ► search the current note",
	"  :find [words]       ► search all saved notes",
	"  :ml                 ► start/end multi-line input",
	"  :edit               ► start edit mode",
	"    :line N           ► select line to edit (empty input keeps it)",
	"    :save             ► save changes",
	"    :cancel           ► discard changes",
}

func helpReply() Reply {
	var r Reply
	for _, line := range helpText {
		r.info(line)
	}
	return r
}
