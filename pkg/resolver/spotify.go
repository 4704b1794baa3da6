package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	spotifyAccountsURL = "https://accounts.spotify.com/api/token"
	spotifyAPIBase     = "https://api.spotify.com/v1"
	spotifyPageLimit   = 50
)

// SpotifyTrack is the metadata we keep per service track: just enough to
// turn it into a YouTube search.
type SpotifyTrack struct {
	Name    string
	Artists []string
}

// Artist returns the primary artist, or "" when unknown.
func (t SpotifyTrack) Artist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// SearchTerms builds the YouTube search query for this track.
func (t SpotifyTrack) SearchTerms() string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return t.Name + " " + strings.Join(t.Artists, " ")
}

// SpotifyClient talks to the Spotify Web API with client-credentials auth.
// The bearer token is cached until shortly before expiry.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	http         *http.Client
	base         string
	accounts     string

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewSpotifyClient creates a client. Returns nil when credentials are not
// configured so callers can wire the absence through.
func NewSpotifyClient(clientID, clientSecret string) *SpotifyClient {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: 15 * time.Second},
		base:         spotifyAPIBase,
		accounts:     spotifyAccountsURL,
	}
}

// bearerToken returns a valid access token, refreshing it when needed.
func (c *SpotifyClient) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expires) {
		return c.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.accounts, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to build token request")
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "spotify token request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("spotify token endpoint returned %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}

	c.token = body.AccessToken
	// Renew a minute early so in-flight requests never carry a dead token.
	c.expires = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - time.Minute)
	return c.token, nil
}

// get performs an authenticated GET and decodes the JSON response into out.
func (c *SpotifyClient) get(ctx context.Context, endpoint string, out any) error {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build spotify request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "spotify request failed")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("spotify API returned %s for %s", resp.Status, endpoint)
	}
	return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "failed to decode spotify response")
}

type spotifyArtist struct {
	Name string `json:"name"`
}

type spotifyTrackObject struct {
	Name    string          `json:"name"`
	Artists []spotifyArtist `json:"artists"`
}

func (o spotifyTrackObject) toTrack() SpotifyTrack {
	t := SpotifyTrack{Name: o.Name}
	for _, a := range o.Artists {
		t.Artists = append(t.Artists, a.Name)
	}
	return t
}

// Track fetches a single track by ID.
func (c *SpotifyClient) Track(ctx context.Context, id string) (SpotifyTrack, error) {
	var obj spotifyTrackObject
	if err := c.get(ctx, fmt.Sprintf("%s/tracks/%s", c.base, id), &obj); err != nil {
		return SpotifyTrack{}, err
	}
	if obj.Name == "" {
		return SpotifyTrack{}, errors.New("spotify track has no name")
	}
	return obj.toTrack(), nil
}

// PlaylistTracks fetches all members of a playlist in order, following
// pagination.
func (c *SpotifyClient) PlaylistTracks(ctx context.Context, id string) ([]SpotifyTrack, error) {
	var tracks []SpotifyTrack
	next := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", c.base, id, spotifyPageLimit)
	for next != "" {
		var page struct {
			Items []struct {
				Track spotifyTrackObject `json:"track"`
			} `json:"items"`
			Next string `json:"next"`
		}
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			// Local files and removed tracks come back nameless; skip them.
			if item.Track.Name == "" {
				continue
			}
			tracks = append(tracks, item.Track.toTrack())
		}
		next = page.Next
	}
	return tracks, nil
}

// AlbumTracks fetches all members of an album in order, following pagination.
func (c *SpotifyClient) AlbumTracks(ctx context.Context, id string) ([]SpotifyTrack, error) {
	var tracks []SpotifyTrack
	next := fmt.Sprintf("%s/albums/%s/tracks?limit=%d", c.base, id, spotifyPageLimit)
	for next != "" {
		var page struct {
			Items []spotifyTrackObject `json:"items"`
			Next  string               `json:"next"`
		}
		if err := c.get(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if item.Name == "" {
				continue
			}
			tracks = append(tracks, item.toTrack())
		}
		next = page.Next
	}
	return tracks, nil
}
