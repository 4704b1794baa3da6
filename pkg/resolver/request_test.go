package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		kind      Kind
		serviceID string
	}{
		{
			name:  "plain search terms",
			query: "never gonna give you up",
			kind:  KindSearchTerm,
		},
		{
			name:  "words that look like a domain",
			query: "open.spotify.com best songs",
			kind:  KindSearchTerm,
		},
		{
			name:  "youtube watch url",
			query: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			kind:  KindDirectURL,
		},
		{
			name:  "youtu.be short url",
			query: "https://youtu.be/dQw4w9WgXcQ",
			kind:  KindDirectURL,
		},
		{
			name:  "arbitrary media url",
			query: "http://example.com/audio.mp3",
			kind:  KindDirectURL,
		},
		{
			name:      "spotify track",
			query:     "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT",
			kind:      KindServiceTrack,
			serviceID: "4cOdK2wGLETKBW3PvgPWqT",
		},
		{
			name:      "spotify track without scheme",
			query:     "open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT",
			kind:      KindServiceTrack,
			serviceID: "4cOdK2wGLETKBW3PvgPWqT",
		},
		{
			name:      "spotify track with share query",
			query:     "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT?si=abc123",
			kind:      KindServiceTrack,
			serviceID: "4cOdK2wGLETKBW3PvgPWqT",
		},
		{
			name:      "spotify playlist",
			query:     "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			kind:      KindServicePlaylist,
			serviceID: "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name:      "spotify album",
			query:     "https://open.spotify.com/album/6dVIqQ8qmQ5GBnJ9shOYGE",
			kind:      KindServiceAlbum,
			serviceID: "6dVIqQ8qmQ5GBnJ9shOYGE",
		},
		{
			name:  "spotify artist page is just a url",
			query: "https://open.spotify.com/artist/0OdUWJ0sBjDrqHygGUXeCF",
			kind:  KindDirectURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Classify(tt.query)
			assert.Equal(t, tt.kind, req.Kind)
			assert.Equal(t, tt.query, req.Query)
			assert.Equal(t, tt.serviceID, req.ServiceID)
		})
	}
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsYouTubeURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, IsYouTubeURL("https://music.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsYouTubeURL("https://m.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, IsYouTubeURL("https://example.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, IsYouTubeURL("not a url"))
}

func TestSpotifyTrackSearchTerms(t *testing.T) {
	assert.Equal(t, "Song Artist", SpotifyTrack{Name: "Song", Artists: []string{"Artist"}}.SearchTerms())
	assert.Equal(t, "Song A B", SpotifyTrack{Name: "Song", Artists: []string{"A", "B"}}.SearchTerms())
	assert.Equal(t, "Song", SpotifyTrack{Name: "Song"}.SearchTerms())
}
