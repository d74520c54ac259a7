package links

import (
	"net/url"
	"regexp"
	"strings"
)

// Provider names a recognized video host.
type Provider string

const (
	ProviderNone    Provider = ""
	ProviderYouTube Provider = "youtube"
	ProviderVimeo   Provider = "vimeo"
)

// Normalized is the canonical form of a pasted URL.
type Normalized struct {
	URL      string
	VideoID  string
	Provider Provider
}

var playbackParams = map[string]bool{
	"v":     true,
	"t":     true,
	"start": true,
	"list":  true,
	"index": true,
}

var youtubeHosts = map[string]bool{
	"youtube.com":          true,
	"m.youtube.com":        true,
	"music.youtube.com":    true,
	"youtube-nocookie.com": true,
}

var youtubePathPrefixes = []string{"/embed/", "/shorts/", "/live/", "/v/"}

var (
	reYouTubeID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	reVimeoID   = regexp.MustCompile(`^[0-9]+$`)
)

// Normalize canonicalizes input and extracts the provider video id when the host is recognized.
//
// Normalizing an already normalized URL returns it unchanged.
func Normalize(input string) Normalized {
	u, err := url.Parse(input)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return Normalized{URL: input}
	}

	host := strings.ToLower(u.Host)
	for strings.HasPrefix(host, "www.") {
		host = host[len("www."):]
	}
	u.Host = host

	query := u.Query()
	videoID, provider := extractVideoID(u.Hostname(), u.Path, query)

	kept := url.Values{}
	for key, values := range query {
		if playbackParams[key] {
			kept[key] = values
		}
	}

	u.RawQuery = kept.Encode()
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""

	return Normalized{URL: u.String(), VideoID: videoID, Provider: provider}
}

// VideoID is shorthand for Normalize(input).VideoID.
func VideoID(input string) string {
	return Normalize(input).VideoID
}

func extractVideoID(host, path string, query url.Values) (string, Provider) {
	switch {
	case youtubeHosts[host]:
		if path == "/watch" {
			return validID(reYouTubeID, query.Get("v")), ProviderYouTube
		}
		for _, prefix := range youtubePathPrefixes {
			if rest, ok := strings.CutPrefix(path, prefix); ok {
				return validID(reYouTubeID, firstSegment(rest)), ProviderYouTube
			}
		}
		return "", ProviderYouTube
	case host == "youtu.be":
		return validID(reYouTubeID, firstSegment(strings.TrimPrefix(path, "/"))), ProviderYouTube
	case host == "vimeo.com":
		return validID(reVimeoID, firstSegment(strings.TrimPrefix(path, "/"))), ProviderVimeo
	case host == "player.vimeo.com":
		if rest, ok := strings.CutPrefix(path, "/video/"); ok {
			return validID(reVimeoID, firstSegment(rest)), ProviderVimeo
		}
		return "", ProviderVimeo
	}
	return "", ProviderNone
}

func firstSegment(path string) string {
	if i := strings.IndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return path
}

func validID(re *regexp.Regexp, id string) string {
	if re.MatchString(id) {
		return id
	}
	return ""
}
