package notestore

import (
	"sort"
)

// TagCount pairs a tag with its number of occurrences.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts is a tag frequency table that remembers first-seen order.
type TagCounts struct {
	order  []string
	counts map[string]int
}

// NewTagCounts returns an empty table.
func NewTagCounts() *TagCounts {
	return &TagCounts{counts: make(map[string]int)}
}

// Add records one occurrence of tag.
func (c *TagCounts) Add(tag string) {
	if _, ok := c.counts[tag]; !ok {
		c.order = append(c.order, tag)
	}
	c.counts[tag]++
}

// Count returns how many times tag was added.
func (c *TagCounts) Count(tag string) int {
	return c.counts[tag]
}

// Len returns the number of distinct tags.
func (c *TagCounts) Len() int {
	return len(c.order)
}

// Sorted returns the distinct tags in alphabetical order.
func (c *TagCounts) Sorted() []string {
	out := append([]string(nil), c.order...)
	sort.Strings(out)
	return out
}

// Top returns at most n tags by count descending; equal counts keep
// first-seen order.
func (c *TagCounts) Top(n int) []TagCount {
	out := make([]TagCount, len(c.order))
	for i, t := range c.order {
		out[i] = TagCount{Tag: t, Count: c.counts[t]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
