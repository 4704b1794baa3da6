package resolver

import (
	"net/url"
	"regexp"
)

// Kind is the closed set of query variants. Classification happens exactly
// once, at the resolver boundary; everything downstream dispatches on it.
type Kind int

const (
	KindSearchTerm Kind = iota
	KindDirectURL
	KindServiceTrack
	KindServicePlaylist
	KindServiceAlbum
	KindAutoplaySeed
)

func (k Kind) String() string {
	switch k {
	case KindSearchTerm:
		return "search"
	case KindDirectURL:
		return "direct-url"
	case KindServiceTrack:
		return "spotify-track"
	case KindServicePlaylist:
		return "spotify-playlist"
	case KindServiceAlbum:
		return "spotify-album"
	case KindAutoplaySeed:
		return "autoplay-seed"
	}
	return "unknown"
}

// Request is a classified user query. ServiceID is only set for the Spotify
// variants.
type Request struct {
	Kind      Kind
	Query     string
	ServiceID string
}

var (
	spotifyTrackRe    = regexp.MustCompile(`^(https?://)?open\.spotify\.com/track/([a-zA-Z0-9]+)(\?.*)?$`)
	spotifyPlaylistRe = regexp.MustCompile(`^(https?://)?open\.spotify\.com/playlist/([a-zA-Z0-9]+)(\?.*)?$`)
	spotifyAlbumRe    = regexp.MustCompile(`^(https?://)?open\.spotify\.com/album/([a-zA-Z0-9]+)(\?.*)?$`)
)

// Classify maps a raw query string to its request variant. Spotify URLs are
// split by path shape into track/playlist/album, any other absolute URL is a
// direct URL, everything else is a search term. Pure function.
func Classify(query string) Request {
	if m := spotifyTrackRe.FindStringSubmatch(query); m != nil {
		return Request{Kind: KindServiceTrack, Query: query, ServiceID: m[2]}
	}
	if m := spotifyPlaylistRe.FindStringSubmatch(query); m != nil {
		return Request{Kind: KindServicePlaylist, Query: query, ServiceID: m[2]}
	}
	if m := spotifyAlbumRe.FindStringSubmatch(query); m != nil {
		return Request{Kind: KindServiceAlbum, Query: query, ServiceID: m[2]}
	}
	if IsURL(query) {
		return Request{Kind: KindDirectURL, Query: query}
	}
	return Request{Kind: KindSearchTerm, Query: query}
}

// IsURL reports whether the input parses as an absolute http(s) URL.
func IsURL(input string) bool {
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var youtubeRe = regexp.MustCompile(`^(https?://)?((www|m|music)\.)?(youtube\.com|youtu\.be)/`)

// IsYouTubeURL reports whether the URL points at YouTube.
func IsYouTubeURL(input string) bool {
	return youtubeRe.MatchString(input)
}
