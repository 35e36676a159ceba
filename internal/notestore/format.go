package notestore

import (
	"strings"
	"unicode/utf8"
)

const (
	sectionMarker  = "****"
	listItemPrefix = "- "
	underlineRune  = "="
)

var httpPrefixes = []string{"HTTP/", "GET ", "POST "}

// FormatContent applies the on-save presentation rules to a note body.
//
// Section lines (starting with "****") become a heading with an "=" underline,
// preceded by one blank line, or two when a previous section is open. List
// items are indented and HTTP request/response lines are quoted.
//
// Blank lines already in front of a heading count toward its spacing, so
// "a\n\n****B" gets no extra blank line, and a heading already followed by
// its underline is not underlined again. Formatting a loaded note a second
// time therefore leaves it unchanged.
func FormatContent(content string) string {
	lines := splitLines(content)
	out := make([]string, 0, len(lines))
	inSection := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, sectionMarker):
			want := 1
			if inSection {
				want = 2
			}
			for have := trailingBlanks(out); have < want; have++ {
				out = append(out, "")
			}
			underline := strings.Repeat(underlineRune, utf8.RuneCountInString(line))
			out = append(out, line, underline)
			if i+1 < len(lines) && lines[i+1] == underline {
				i++
			}
			inSection = true
		case strings.HasPrefix(line, listItemPrefix):
			out = append(out, "  "+line)
		case isHTTPLine(line):
			out = append(out, "  > "+line)
		default:
			out = append(out, line)
		}
	}

	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

func isHTTPLine(line string) bool {
	for _, p := range httpPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func trailingBlanks(lines []string) int {
	n := 0
	for i := len(lines) - 1; i >= 0 && lines[i] == ""; i-- {
		n++
	}
	return n
}

// splitLines splits s into lines without terminators. A trailing newline does
// not produce an extra empty line and "\r\n" endings are accepted.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
