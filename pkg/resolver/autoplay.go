package resolver

import (
	"context"
	"strings"

	"github.com/raitonoberu/ytmusic"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Mejiro/pkg/player"
)

// AutoplayRequester is stamped on recommended tracks so the queue view can
// tell them apart from user requests.
const AutoplayRequester = "autoplay"

// AutoplayEngine recommends a follow-up track when a guild's queue runs dry.
// It searches YouTube Music for tracks related to the seed's title and
// resolves the best candidate. A failed or empty lookup yields nothing — the
// session falls back to idle without surfacing an error.
type AutoplayEngine struct {
	resolver *Resolver
	log      zerolog.Logger
}

// NewAutoplayEngine creates an engine backed by the given resolver.
func NewAutoplayEngine(r *Resolver, logger zerolog.Logger) *AutoplayEngine {
	return &AutoplayEngine{
		resolver: r,
		log:      logger.With().Str("component", "autoplay").Logger(),
	}
}

// Next implements player.Autoplay. The boolean is false when no candidate
// could be found or resolved; that is deliberate fallback, not an error.
func (e *AutoplayEngine) Next(ctx context.Context, seed player.Track) (player.Track, bool) {
	search := ytmusic.TrackSearch(seed.Title)
	result, err := search.Next()
	if err != nil {
		e.log.Debug().Err(err).Str("seed", seed.Title).Msg("related track lookup failed")
		return player.Track{}, false
	}

	for _, candidate := range result.Tracks {
		if candidate.VideoID == "" {
			continue
		}
		// Don't recommend the seed right back.
		if strings.EqualFold(candidate.Title, seed.Title) {
			continue
		}
		t, err := e.resolver.yt.fromVideo(ctx, candidate.VideoID,
			"https://www.youtube.com/watch?v="+candidate.VideoID)
		if err != nil {
			e.log.Debug().Err(err).Str("candidate", candidate.Title).Msg("candidate did not resolve, trying next")
			continue
		}
		t.Origin = player.OriginAutoplay
		t.RequestedBy = AutoplayRequester
		return t, true
	}

	e.log.Debug().Str("seed", seed.Title).Msg("no autoplay candidate found")
	return player.Track{}, false
}
