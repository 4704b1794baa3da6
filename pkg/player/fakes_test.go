package player

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// fakePlayback delivers its end event on demand.
type fakePlayback struct {
	done chan error
	once sync.Once

	mu     sync.Mutex
	paused bool
}

func newFakePlayback() *fakePlayback {
	return &fakePlayback{done: make(chan error, 1)}
}

func (p *fakePlayback) Done() <-chan error { return p.done }

func (p *fakePlayback) Stop() { p.finish(nil) }

func (p *fakePlayback) SetPaused(paused bool) {
	p.mu.Lock()
	p.paused = paused
	p.mu.Unlock()
}

func (p *fakePlayback) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// finish emits the end event; natural end for nil, mid-stream failure
// otherwise. Safe to call more than once.
func (p *fakePlayback) finish(err error) {
	p.once.Do(func() { p.done <- err })
}

// fakeConnection records started playbacks and refuses tracks listed in
// playErr.
type fakeConnection struct {
	mu           sync.Mutex
	playbacks    []*fakePlayback
	playErr      map[string]error
	disconnected bool
}

func (c *fakeConnection) Play(t Track) (Playback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.playErr[t.Title]; err != nil {
		return nil, err
	}
	pb := newFakePlayback()
	c.playbacks = append(c.playbacks, pb)
	return pb, nil
}

func (c *fakeConnection) Disconnect() error {
	c.mu.Lock()
	c.disconnected = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConnection) lastPlayback() *fakePlayback {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.playbacks) == 0 {
		return nil
	}
	return c.playbacks[len(c.playbacks)-1]
}

func (c *fakeConnection) playCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.playbacks)
}

func (c *fakeConnection) isDisconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnected
}

// fakeConnector hands out one fakeConnection per join and counts joins.
type fakeConnector struct {
	mu      sync.Mutex
	joinErr error
	conns   map[string]*fakeConnection
	joins   int
}

func newFakeConnector() *fakeConnector {
	return &fakeConnector{conns: make(map[string]*fakeConnection)}
}

func (c *fakeConnector) Join(ctx context.Context, guildID, channelID string) (Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joins++
	if c.joinErr != nil {
		return nil, c.joinErr
	}
	conn := &fakeConnection{playErr: make(map[string]error)}
	c.conns[guildID] = conn
	return conn, nil
}

func (c *fakeConnector) conn(guildID string) *fakeConnection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conns[guildID]
}

func (c *fakeConnector) joinCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.joins
}

// fakeResolver maps queries to tracks. Queries present in batches are
// playlists; member resolution can be gated per index to control completion
// order, and titles in failing resolve to errors. All maps are set up before
// the session starts and read-only afterwards.
type fakeResolver struct {
	batches    map[string][]BatchMember
	failing    map[string]bool
	gates      map[int]chan struct{}
	queryGates map[string]chan struct{}
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		batches:    make(map[string][]BatchMember),
		failing:    make(map[string]bool),
		gates:      make(map[int]chan struct{}),
		queryGates: make(map[string]chan struct{}),
	}
}

func (r *fakeResolver) IsBatch(query string) bool {
	_, ok := r.batches[query]
	return ok
}

func (r *fakeResolver) Resolve(ctx context.Context, query, requester string) (Track, error) {
	if gate := r.queryGates[query]; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Track{}, ctx.Err()
		}
	}
	if r.failing[query] {
		return Track{}, &ResolutionError{Query: query, Err: errors.New("no match")}
	}
	origin := OriginSearch
	if strings.HasPrefix(query, "http") {
		origin = OriginDirectURL
	}
	return Track{
		Title:       query,
		StreamURL:   "stream://" + query,
		RequestedBy: requester,
		Origin:      origin,
	}, nil
}

func (r *fakeResolver) BatchMembers(ctx context.Context, query string) ([]BatchMember, error) {
	members, ok := r.batches[query]
	if !ok {
		return nil, &ResolutionError{Query: query, Err: errors.New("not a playlist")}
	}
	return members, nil
}

func (r *fakeResolver) ResolveMember(ctx context.Context, m BatchMember, requester string) (Track, error) {
	if gate := r.gates[m.Index]; gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return Track{}, ctx.Err()
		}
	}
	if r.failing[m.Title] {
		return Track{}, &ResolutionError{Query: m.Title, Err: errors.New("no match")}
	}
	return Track{
		Title:       m.Title,
		StreamURL:   "stream://" + m.Title,
		RequestedBy: requester,
		Origin:      OriginServicePlaylist,
	}, nil
}

// fakeAutoplay recommends by seed title. A gate, when set, blocks the lookup
// until released or the context is cancelled.
type fakeAutoplay struct {
	mu        sync.Mutex
	next      map[string]Track
	gate      chan struct{}
	cancelled bool
}

func newFakeAutoplay() *fakeAutoplay {
	return &fakeAutoplay{next: make(map[string]Track)}
}

func (a *fakeAutoplay) recommend(seedTitle string, t Track) {
	a.mu.Lock()
	a.next[seedTitle] = t
	a.mu.Unlock()
}

func (a *fakeAutoplay) Next(ctx context.Context, seed Track) (Track, bool) {
	a.mu.Lock()
	gate := a.gate
	a.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			a.mu.Lock()
			a.cancelled = true
			a.mu.Unlock()
			return Track{}, false
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.next[seed.Title]
	if !ok {
		return Track{}, false
	}
	t.Origin = OriginAutoplay
	return t, true
}

func (a *fakeAutoplay) wasCancelled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancelled
}

// memorySettings is an in-memory player.Settings.
type memorySettings struct {
	mu       sync.Mutex
	autoplay map[string]bool
}

func newMemorySettings() *memorySettings {
	return &memorySettings{autoplay: make(map[string]bool)}
}

func (s *memorySettings) AutoplayEnabled(guildID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoplay[guildID]
}

func (s *memorySettings) SetAutoplayEnabled(guildID string, enabled bool) error {
	s.mu.Lock()
	s.autoplay[guildID] = enabled
	s.mu.Unlock()
	return nil
}

// testHarness bundles a registry with its fakes.
type testHarness struct {
	registry  *Registry
	connector *fakeConnector
	resolver  *fakeResolver
	autoplay  *fakeAutoplay
	settings  *memorySettings
}

func newTestHarness() *testHarness {
	h := &testHarness{
		connector: newFakeConnector(),
		resolver:  newFakeResolver(),
		autoplay:  newFakeAutoplay(),
		settings:  newMemorySettings(),
	}
	h.registry = NewRegistry(RegistryConfig{
		Connector: h.connector,
		Resolver:  h.resolver,
		Autoplay:  h.autoplay,
		Settings:  h.settings,
		Logger:    zerolog.Nop(),
	})
	return h
}
