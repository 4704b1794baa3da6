package resolver

import (
	"context"
	"net/http"
	"time"

	youtube "github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
	"github.com/ppalone/ytsearch"

	"github.com/latoulicious/Mejiro/pkg/player"
)

// youtubeProvider resolves YouTube URLs and search terms into tracks with a
// direct audio stream URL attached.
type youtubeProvider struct {
	client *youtube.Client
	search *ytsearch.Client
}

func newYoutubeProvider() *youtubeProvider {
	return &youtubeProvider{
		client: &youtube.Client{
			HTTPClient: &http.Client{Timeout: 30 * time.Second},
		},
		search: ytsearch.NewClient(nil),
	}
}

// fromURL resolves a URL into a track. YouTube URLs go through the YouTube
// client for metadata and a stream URL; any other URL is treated as a direct
// audio source with the URL itself standing in as the title.
func (p *youtubeProvider) fromURL(ctx context.Context, rawURL string) (player.Track, error) {
	if IsYouTubeURL(rawURL) {
		return p.fromVideo(ctx, rawURL, rawURL)
	}
	return player.Track{
		Title:     rawURL,
		StreamURL: rawURL,
		PageURL:   rawURL,
	}, nil
}

// fromSearch searches YouTube and resolves the first hit.
func (p *youtubeProvider) fromSearch(ctx context.Context, terms string) (player.Track, error) {
	res, err := p.search.Search(ctx, terms)
	if err != nil {
		return player.Track{}, errors.Wrap(err, "youtube search failed")
	}
	if len(res.Results) == 0 {
		return player.Track{}, errors.Errorf("no results for %q", terms)
	}
	first := res.Results[0]
	return p.fromVideo(ctx, first.VideoID, "https://www.youtube.com/watch?v="+first.VideoID)
}

// fromVideo loads video metadata and picks an audio stream URL.
func (p *youtubeProvider) fromVideo(ctx context.Context, idOrURL, pageURL string) (player.Track, error) {
	video, err := p.client.GetVideoContext(ctx, idOrURL)
	if err != nil {
		return player.Track{}, errors.Wrap(err, "failed to load video metadata")
	}
	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return player.Track{}, errors.Errorf("no audio formats for %q", video.Title)
	}
	streamURL, err := p.client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return player.Track{}, errors.Wrap(err, "failed to get stream URL")
	}
	return player.Track{
		Title:     video.Title,
		StreamURL: streamURL,
		PageURL:   pageURL,
		Duration:  video.Duration,
	}, nil
}
