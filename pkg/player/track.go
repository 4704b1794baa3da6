package player

import "time"

// Origin tells where a track request came from. It is classified once at the
// resolver boundary and never changes afterwards.
type Origin int

const (
	OriginDirectURL Origin = iota
	OriginSearch
	OriginServiceTrack
	OriginServicePlaylist
	OriginServiceAlbum
	OriginAutoplay
)

func (o Origin) String() string {
	switch o {
	case OriginDirectURL:
		return "direct"
	case OriginSearch:
		return "search"
	case OriginServiceTrack:
		return "service-track"
	case OriginServicePlaylist:
		return "service-playlist"
	case OriginServiceAlbum:
		return "service-album"
	case OriginAutoplay:
		return "autoplay"
	}
	return "unknown"
}

// Track is a resolved, playable unit. Immutable once resolved.
type Track struct {
	Title       string
	StreamURL   string
	PageURL     string
	Duration    time.Duration
	RequestedBy string
	Origin      Origin
}

// BatchMember is one entry of a playlist or album before it has been resolved
// into a playable track. Index is the 0-based position in the original list.
type BatchMember struct {
	Index  int
	Title  string
	Artist string
}

// SearchTerms builds the search query used to resolve this member.
func (m BatchMember) SearchTerms() string {
	if m.Artist == "" {
		return m.Title
	}
	return m.Title + " " + m.Artist
}
