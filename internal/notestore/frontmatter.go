package notestore

import (
	"strings"
)

const (
	frontmatterDelim = "---"
	tagsKey          = "tags: "
	tagSeparator     = ", "
)

// Encode renders a note file: a frontmatter block carrying tags (only when
// tags is non-empty) followed by body.
func Encode(body string, tags []string) []byte {
	var b strings.Builder
	if len(tags) > 0 {
		b.WriteString(frontmatterDelim + "\n")
		b.WriteString(tagsKey)
		b.WriteString(strings.Join(tags, tagSeparator))
		b.WriteString("\n" + frontmatterDelim + "\n")
	}
	b.WriteString(body)
	return []byte(b.String())
}

// Decode separates the frontmatter block from the body and parses its tag
// line. A file without a well-formed block is returned whole as body with no
// tags.
func Decode(data []byte) (body string, tags []string) {
	content := string(data)
	block, rest, ok := splitFrontmatter(content)
	if !ok {
		return content, nil
	}
	list, ok := strings.CutPrefix(block, tagsKey)
	if !ok {
		return content, nil
	}
	return rest, parseTags(list)
}

// splitFrontmatter returns the text between the opening and closing
// delimiter lines and everything after the closing one.
func splitFrontmatter(content string) (block, rest string, ok bool) {
	opening := frontmatterDelim + "\n"
	if !strings.HasPrefix(content, opening) {
		return "", "", false
	}
	after := content[len(opening):]
	closing := "\n" + frontmatterDelim
	idx := strings.Index(after, closing+"\n")
	if idx < 0 {
		// Closing delimiter as the last line without a trailing newline.
		if !strings.HasSuffix(after, closing) {
			return "", "", false
		}
		return after[:len(after)-len(closing)], "", true
	}
	return after[:idx], after[idx+len(closing)+1:], true
}

func parseTags(list string) []string {
	var out []string
	for _, t := range strings.Split(list, tagSeparator) {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// decodeTags is the best-effort tag reader used by directory scans.
func decodeTags(data []byte) []string {
	_, tags := Decode(data)
	return tags
}
