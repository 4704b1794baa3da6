package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpotify(t *testing.T, handler http.Handler) (*SpotifyClient, *httptest.Server, *atomic.Int32) {
	t.Helper()

	var tokenCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
	})
	mux.Handle("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := NewSpotifyClient("id", "secret")
	require.NotNil(t, c)
	c.base = srv.URL
	c.accounts = srv.URL + "/token"
	return c, srv, &tokenCalls
}

func TestNewSpotifyClientWithoutCredentials(t *testing.T) {
	assert.Nil(t, NewSpotifyClient("", ""))
	assert.Nil(t, NewSpotifyClient("id", ""))
}

func TestSpotifyTrackFetch(t *testing.T) {
	c, _, tokenCalls := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/tracks/abc", r.URL.Path)
		fmt.Fprint(w, `{"name":"Song","artists":[{"name":"Artist"},{"name":"Feat"}]}`)
	}))

	track, err := c.Track(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Song", track.Name)
	assert.Equal(t, []string{"Artist", "Feat"}, track.Artists)

	// Second call reuses the cached token.
	_, err = c.Track(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int32(1), tokenCalls.Load())
}

func TestSpotifyPlaylistPagination(t *testing.T) {
	var srv *httptest.Server
	c, s, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/playlists/pl/tracks", r.URL.Path)
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"items":[{"track":{"name":"c","artists":[]}}],"next":""}`)
			return
		}
		// First page: one real track, one removed (nameless) entry.
		fmt.Fprintf(w, `{"items":[{"track":{"name":"a","artists":[{"name":"x"}]}},{"track":{"name":""}},{"track":{"name":"b","artists":[]}}],"next":"%s/playlists/pl/tracks?page=2"}`, srv.URL)
	}))
	srv = s

	tracks, err := c.PlaylistTracks(context.Background(), "pl")
	require.NoError(t, err)
	require.Len(t, tracks, 3)
	assert.Equal(t, "a", tracks[0].Name)
	assert.Equal(t, "b", tracks[1].Name)
	assert.Equal(t, "c", tracks[2].Name)
}

func TestSpotifyAlbumTracks(t *testing.T) {
	c, _, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/albums/al/tracks", r.URL.Path)
		fmt.Fprint(w, `{"items":[{"name":"one","artists":[{"name":"x"}]},{"name":"two","artists":[{"name":"x"}]}],"next":""}`)
	}))

	tracks, err := c.AlbumTracks(context.Background(), "al")
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "one", tracks[0].Name)
	assert.Equal(t, "x", tracks[1].Artist())
}

func TestSpotifyErrorStatus(t *testing.T) {
	c, _, _ := newTestSpotify(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	_, err := c.Track(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
