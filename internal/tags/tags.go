// Package tags parses free-text tag input and matches videos against search queries.
package tags

import (
	"strings"

	"github.com/desertthunder/vidshelf/internal/models"
)

// Normalize trims a single tag token and strips one leading "#".
func Normalize(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "#"))
}

// ParseTagsInput splits raw on commas and newlines and returns the distinct tags in first-seen order.
//
// Duplicates are detected case-insensitively; the casing of the first occurrence wins.
func ParseTagsInput(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	return Dedupe(fields)
}

// Dedupe normalizes each tag and drops empty and case-insensitive duplicates.
func Dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, raw := range tags {
		tag := Normalize(raw)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// Has reports whether tags contains tag, ignoring case and a leading "#".
func Has(tags []string, tag string) bool {
	want := strings.ToLower(Normalize(tag))
	for _, t := range tags {
		if strings.ToLower(Normalize(t)) == want {
			return true
		}
	}
	return false
}

// Query is a parsed search query.
type Query struct {
	Tags  []string // lowercased tag filters, all required
	Terms []string // lowercased text filters, all required
}

// ParseQuery splits query on whitespace into tag filters ("#tag") and text filters.
func ParseQuery(query string) Query {
	var q Query
	for _, token := range strings.Fields(query) {
		if strings.HasPrefix(token, "#") {
			if tag := Normalize(token); tag != "" {
				q.Tags = append(q.Tags, strings.ToLower(tag))
			}
			continue
		}
		q.Terms = append(q.Terms, strings.ToLower(token))
	}
	return q
}

// Empty reports whether the query has no filters.
func (q Query) Empty() bool {
	return len(q.Tags) == 0 && len(q.Terms) == 0
}

// Match reports whether item satisfies every filter of q.
func (q Query) Match(item *models.VideoItem) bool {
	for _, tag := range q.Tags {
		if !Has(item.Tags, tag) {
			return false
		}
	}

	if len(q.Terms) == 0 {
		return true
	}

	title := item.Title
	if title == "" {
		title = item.SourceTitle
	}
	haystacks := []string{
		strings.ToLower(title),
		strings.ToLower(item.URL),
		strings.ToLower(item.VideoID),
	}

	for _, term := range q.Terms {
		found := false
		for _, h := range haystacks {
			if strings.Contains(h, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchItem reports whether item matches query. An empty query matches everything.
func MatchItem(item *models.VideoItem, query string) bool {
	return ParseQuery(query).Match(item)
}

// Filter returns the items matching query, preserving order.
func Filter(items []*models.VideoItem, query string) []*models.VideoItem {
	q := ParseQuery(query)
	if q.Empty() {
		return items
	}
	out := make([]*models.VideoItem, 0, len(items))
	for _, item := range items {
		if q.Match(item) {
			out = append(out, item)
		}
	}
	return out
}
