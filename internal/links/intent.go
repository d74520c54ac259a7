package links

import (
	"net/url"
	"regexp"
	"strings"
)

// AddIntent is an "add video" request carried by a deep link.
type AddIntent struct {
	URL   string
	Title string
	Text  string
}

var reHTTPURL = regexp.MustCompile(`https?://[^\s<>"']+`)

// FirstHTTPURL returns the first http(s) URL found in text, without trailing punctuation.
func FirstHTTPURL(text string) string {
	match := reHTTPURL.FindString(text)
	return strings.TrimRight(match, ".,;:!?)]}")
}

// ParseAddIntent extracts an [AddIntent] from a deep link.
//
// raw may be a full URL ("https://host/#/?add=1&url=..."), a bare fragment ("#/add?add=1&..."), or the query
// string alone. The intent requires add=1 and a URL taken from the url parameter or, failing that, from the
// first http(s) URL inside text.
func ParseAddIntent(raw string) (AddIntent, bool) {
	query, ok := fragmentQuery(raw)
	if !ok {
		return AddIntent{}, false
	}

	values, err := url.ParseQuery(query)
	if err != nil || values.Get("add") != "1" {
		return AddIntent{}, false
	}

	intent := AddIntent{
		URL:   strings.TrimSpace(values.Get("url")),
		Title: strings.TrimSpace(values.Get("title")),
		Text:  strings.TrimSpace(values.Get("text")),
	}
	if intent.URL == "" {
		intent.URL = FirstHTTPURL(intent.Text)
	}
	if intent.URL == "" {
		return AddIntent{}, false
	}

	return intent, true
}

// FragmentQuery returns the query portion of a "#/path?query" fragment found in raw.
func FragmentQuery(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	i := strings.IndexByte(raw, '#')
	if i < 0 {
		return "", false
	}
	fragment := raw[i+1:]
	j := strings.IndexByte(fragment, '?')
	if j < 0 {
		return "", false
	}
	return fragment[j+1:], true
}

func fragmentQuery(raw string) (string, bool) {
	if q, ok := FragmentQuery(raw); ok {
		return q, true
	}
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if strings.HasPrefix(raw, "add=") || strings.Contains(raw, "&add=") {
		return raw, true
	}
	return "", false
}
