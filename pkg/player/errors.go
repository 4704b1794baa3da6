package player

import "fmt"

// ConnectionError means the voice channel could not be joined or kept.
// It is always surfaced to the requester; nothing retries it automatically.
type ConnectionError struct {
	GuildID string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("voice connection failed for guild %s: %v", e.GuildID, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ResolutionError means a track lookup failed: bad URL, no search results,
// upstream auth/rate-limit trouble or a timed-out request.
type ResolutionError struct {
	Query string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %q: %v", e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// QueueError is an invalid queue operation, e.g. removing a position that is
// out of range or skipping when nothing plays. The queue is left unchanged.
type QueueError struct {
	Reason string
}

func (e *QueueError) Error() string { return e.Reason }

// PlaybackError is a mid-stream decode or transport failure. It is not fatal
// to the session: the controller treats it as an implicit track end and
// advances the queue, surfacing a warning instead of a hard failure.
type PlaybackError struct {
	Track string
	Err   error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("playback of %q failed: %v", e.Track, e.Err)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
