package player

import "context"

// Connector joins voice channels. The discordgo-backed implementation lives in
// pkg/voice; tests plug in fakes.
type Connector interface {
	Join(ctx context.Context, guildID, channelID string) (Connection, error)
}

// Connection is the exclusive voice handle of one session. It is never shared
// between guilds and is released by Disconnect.
type Connection interface {
	// Play starts streaming the given track and returns a handle for it.
	Play(t Track) (Playback, error)
	Disconnect() error
}

// Playback is one active track stream.
type Playback interface {
	// Done delivers exactly one value per playback: nil on a natural end,
	// an error when the stream died mid-track.
	Done() <-chan error
	// Stop forces an early end. Done still fires.
	Stop()
	SetPaused(paused bool)
}

// Resolver turns raw user queries into playable tracks. Implemented by
// pkg/resolver; the session only cares about this surface.
type Resolver interface {
	// IsBatch reports whether the query expands to multiple tracks
	// (a streaming-service playlist or album).
	IsBatch(query string) bool
	// Resolve handles singular queries and returns exactly one track.
	Resolve(ctx context.Context, query, requester string) (Track, error)
	// BatchMembers fetches the ordered member metadata of a playlist/album.
	BatchMembers(ctx context.Context, query string) ([]BatchMember, error)
	// ResolveMember resolves one batch member into a playable track.
	ResolveMember(ctx context.Context, m BatchMember, requester string) (Track, error)
}

// Autoplay recommends a follow-up track when the queue runs dry. The second
// return value is false when there is no candidate; that is not an error.
type Autoplay interface {
	Next(ctx context.Context, seed Track) (Track, bool)
}

// Notifier receives playback side effects. The command layer renders these as
// channel messages; NopNotifier discards them.
type Notifier interface {
	NowPlaying(guildID string, t Track)
	QueueChanged(guildID string, queue []Track)
	PlaybackWarning(guildID string, t Track, err error)
}

// NopNotifier ignores all notifications.
type NopNotifier struct{}

func (NopNotifier) NowPlaying(string, Track)             {}
func (NopNotifier) QueueChanged(string, []Track)         {}
func (NopNotifier) PlaybackWarning(string, Track, error) {}

// Settings persists per-guild toggles that should survive a restart. Queue
// and session state deliberately stay in memory only.
type Settings interface {
	AutoplayEnabled(guildID string) bool
	SetAutoplayEnabled(guildID string, enabled bool) error
}
