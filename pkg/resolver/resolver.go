// Package resolver turns raw user queries into playable tracks. A query is
// classified once into a closed set of variants (direct URL, search term,
// Spotify track/playlist/album, autoplay seed) and then resolved against the
// matching provider: YouTube for lookups and streams, Spotify for service
// metadata. Spotify members are not streamed from Spotify; they resolve into
// YouTube searches, mirroring how the queue ends up playing them.
package resolver

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Mejiro/pkg/player"
)

// Config wires a Resolver. Spotify may be nil, in which case service URLs
// resolve with an error telling the user the integration is off.
type Config struct {
	Spotify *SpotifyClient
	Logger  zerolog.Logger
	Timeout time.Duration
}

// Resolver implements player.Resolver on top of YouTube and Spotify.
type Resolver struct {
	yt      *youtubeProvider
	spotify *SpotifyClient
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a resolver with the given providers.
func New(cfg Config) *Resolver {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = player.DefaultLookupTimeout
	}
	return &Resolver{
		yt:      newYoutubeProvider(),
		spotify: cfg.Spotify,
		timeout: timeout,
		log:     cfg.Logger.With().Str("component", "resolver").Logger(),
	}
}

// IsBatch reports whether the query expands into multiple tracks.
func (r *Resolver) IsBatch(query string) bool {
	k := Classify(query).Kind
	return k == KindServicePlaylist || k == KindServiceAlbum
}

// Resolve handles all singular query variants and returns exactly one track.
// Every network lookup runs under the configured timeout; failures come back
// as *player.ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, query, requester string) (player.Track, error) {
	req := Classify(query)
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		t   player.Track
		err error
	)
	switch req.Kind {
	case KindDirectURL:
		t, err = r.yt.fromURL(ctx, req.Query)
		t.Origin = player.OriginDirectURL
	case KindSearchTerm:
		t, err = r.yt.fromSearch(ctx, req.Query)
		t.Origin = player.OriginSearch
	case KindServiceTrack:
		t, err = r.resolveServiceTrack(ctx, req)
	case KindServicePlaylist, KindServiceAlbum:
		err = errors.New("playlist queries resolve through BatchMembers")
	default:
		err = errors.Errorf("unsupported query kind %s", req.Kind)
	}
	if err != nil {
		r.log.Debug().Err(err).Str("kind", req.Kind.String()).Msg("resolution failed")
		return player.Track{}, asResolutionError(query, err)
	}
	t.RequestedBy = requester
	return t, nil
}

// resolveServiceTrack maps a Spotify track to a YouTube search result.
func (r *Resolver) resolveServiceTrack(ctx context.Context, req Request) (player.Track, error) {
	if r.spotify == nil {
		return player.Track{}, errors.New("spotify support is not configured")
	}
	st, err := r.spotify.Track(ctx, req.ServiceID)
	if err != nil {
		return player.Track{}, err
	}
	t, err := r.yt.fromSearch(ctx, st.SearchTerms())
	if err != nil {
		return player.Track{}, err
	}
	t.Origin = player.OriginServiceTrack
	return t, nil
}

// BatchMembers fetches the ordered member metadata of a Spotify playlist or
// album. Members come back in original list order with their index attached;
// the player merges resolved tracks by that index.
func (r *Resolver) BatchMembers(ctx context.Context, query string) ([]player.BatchMember, error) {
	req := Classify(query)
	if req.Kind != KindServicePlaylist && req.Kind != KindServiceAlbum {
		return nil, &player.ResolutionError{Query: query, Err: errors.New("not a playlist or album URL")}
	}
	if r.spotify == nil {
		return nil, &player.ResolutionError{Query: query, Err: errors.New("spotify support is not configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		tracks []SpotifyTrack
		err    error
	)
	if req.Kind == KindServicePlaylist {
		tracks, err = r.spotify.PlaylistTracks(ctx, req.ServiceID)
	} else {
		tracks, err = r.spotify.AlbumTracks(ctx, req.ServiceID)
	}
	if err != nil {
		return nil, asResolutionError(query, err)
	}

	members := make([]player.BatchMember, len(tracks))
	for i, st := range tracks {
		members[i] = player.BatchMember{Index: i, Title: st.Name, Artist: st.Artist()}
	}
	r.log.Debug().Int("members", len(members)).Str("kind", req.Kind.String()).Msg("expanded batch query")
	return members, nil
}

// ResolveMember resolves one batch member through a YouTube search.
func (r *Resolver) ResolveMember(ctx context.Context, m player.BatchMember, requester string) (player.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	t, err := r.yt.fromSearch(ctx, m.SearchTerms())
	if err != nil {
		return player.Track{}, asResolutionError(m.SearchTerms(), err)
	}
	t.Origin = player.OriginServicePlaylist
	t.RequestedBy = requester
	return t, nil
}

// asResolutionError wraps err unless it already carries the taxonomy type.
func asResolutionError(query string, err error) error {
	var re *player.ResolutionError
	if errors.As(err, &re) {
		return err
	}
	return &player.ResolutionError{Query: query, Err: err}
}
