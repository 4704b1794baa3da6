package player

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLookupTimeout bounds every external lookup a session performs
// (resolution, autoplay). A timeout surfaces as a ResolutionError, never a
// hang.
const DefaultLookupTimeout = 30 * time.Second

// RegistryConfig wires a Registry. Connector and Resolver are mandatory;
// Autoplay, Notifier and Settings are optional collaborators.
type RegistryConfig struct {
	Connector     Connector
	Resolver      Resolver
	Autoplay      Autoplay
	Notifier      Notifier
	Settings      Settings
	Logger        zerolog.Logger
	LookupTimeout time.Duration
}

// Registry is the single source of truth mapping guild IDs to sessions.
// Creation is serialized per guild through a slot lock, so two racing join
// requests never produce two sessions; the registry map lock itself is only
// held for the instant of slot insertion or removal.
type Registry struct {
	mu    sync.Mutex
	slots map[string]*slot

	connector     Connector
	resolver      Resolver
	autoplay      Autoplay
	notifier      Notifier
	settings      Settings
	log           zerolog.Logger
	lookupTimeout time.Duration
}

// slot holds at most one live session for a guild. Its lock serializes
// session creation and teardown for that guild only.
type slot struct {
	mu      sync.Mutex
	session *Session
}

// NewRegistry creates an empty session registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	timeout := cfg.LookupTimeout
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Registry{
		slots:         make(map[string]*slot),
		connector:     cfg.Connector,
		resolver:      cfg.Resolver,
		autoplay:      cfg.Autoplay,
		notifier:      notifier,
		settings:      cfg.Settings,
		log:           cfg.Logger.With().Str("component", "player").Logger(),
		lookupTimeout: timeout,
	}
}

// GetOrCreate returns the guild's session, joining the given voice channel
// and creating one when absent. At most one session ever exists per guild; a
// failed join returns a ConnectionError and leaves no session behind.
func (r *Registry) GetOrCreate(ctx context.Context, guildID, channelID string) (*Session, error) {
	r.mu.Lock()
	sl, ok := r.slots[guildID]
	if !ok {
		sl = &slot{}
		r.slots[guildID] = sl
	}
	r.mu.Unlock()

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session != nil {
		return sl.session, nil
	}

	conn, err := r.connector.Join(ctx, guildID, channelID)
	if err != nil {
		return nil, &ConnectionError{GuildID: guildID, Err: err}
	}

	s := newSession(guildID, conn, r)
	s.onClose = func() { r.drop(guildID, s) }
	sl.session = s
	go s.run()
	r.log.Info().Str("guild_id", guildID).Str("channel_id", channelID).Msg("session created")
	return s, nil
}

// Get returns the guild's session or nil when there is none.
func (r *Registry) Get(guildID string) *Session {
	r.mu.Lock()
	sl := r.slots[guildID]
	r.mu.Unlock()
	if sl == nil {
		return nil
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.session
}

// Remove disconnects and discards the guild's session. Removing an absent
// guild is a no-op, not an error.
func (r *Registry) Remove(guildID string) {
	s := r.Get(guildID)
	if s == nil {
		return
	}
	s.Close()
}

// drop detaches a closed session from the registry. Only removes the slot if
// it still holds that exact session, so a racing re-join is not clobbered.
func (r *Registry) drop(guildID string, s *Session) {
	r.mu.Lock()
	sl := r.slots[guildID]
	r.mu.Unlock()
	if sl == nil {
		return
	}
	sl.mu.Lock()
	if sl.session == s {
		sl.session = nil
	}
	sl.mu.Unlock()
	r.log.Info().Str("guild_id", guildID).Msg("session removed")
}

// Sessions returns a snapshot of all live sessions, for shutdown sweeps.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	slots := make([]*slot, 0, len(r.slots))
	for _, sl := range r.slots {
		slots = append(slots, sl)
	}
	r.mu.Unlock()

	out := make([]*Session, 0, len(slots))
	for _, sl := range slots {
		sl.mu.Lock()
		if sl.session != nil {
			out = append(out, sl.session)
		}
		sl.mu.Unlock()
	}
	return out
}
