package player

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrSessionClosed is returned for commands sent to a session that has
// already left its voice channel.
var ErrSessionClosed = errors.New("session closed")

// commandBuffer bounds the session mailbox. Track-end events and queue
// commands share it, so it only needs to absorb short bursts.
const commandBuffer = 16

// Session is the live playback context of one guild. It owns the voice
// connection, the queue and the playback state machine. All mutations flow
// through a single command loop goroutine, so user commands and track-end
// events for one guild are totally ordered while distinct guilds run in
// parallel.
type Session struct {
	guildID string
	conn    Connection

	queue       *Queue
	state       State
	current     *Track
	playback    Playback
	playbackGen int
	autoplayOn  bool

	resolver      Resolver
	autoplay      Autoplay
	notifier      Notifier
	settings      Settings
	log           zerolog.Logger
	lookupTimeout time.Duration

	cmds     chan func()
	closed   chan struct{}
	stopping bool

	ctx            context.Context
	cancel         context.CancelFunc
	batchCtx       context.Context
	batchCancel    context.CancelFunc
	pendingBatches int
	autoplayCancel context.CancelFunc

	onClose func()
}

// PlayResult is what a play command reports back: the track resolved
// synchronously plus the total number of tracks the query expands to.
type PlayResult struct {
	Track Track
	Total int
}

func newSession(guildID string, conn Connection, r *Registry) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		guildID:       guildID,
		conn:          conn,
		queue:         NewQueue(),
		state:         StateConnectedIdle,
		resolver:      r.resolver,
		autoplay:      r.autoplay,
		notifier:      r.notifier,
		settings:      r.settings,
		log:           r.log.With().Str("guild_id", guildID).Logger(),
		lookupTimeout: r.lookupTimeout,
		cmds:          make(chan func(), commandBuffer),
		closed:        make(chan struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
	if s.settings != nil {
		s.autoplayOn = s.settings.AutoplayEnabled(guildID)
	}
	return s
}

// run is the session's command loop. It exits after a shutdown command.
func (s *Session) run() {
	for {
		fn := <-s.cmds
		fn()
		if s.stopping {
			close(s.closed)
			return
		}
	}
}

// do runs fn on the command loop and waits for it to finish.
func (s *Session) do(fn func()) error {
	done := make(chan struct{})
	select {
	case s.cmds <- func() { fn(); close(done) }:
	case <-s.closed:
		return ErrSessionClosed
	}
	select {
	case <-done:
		return nil
	case <-s.closed:
		return ErrSessionClosed
	}
}

// post submits fn without waiting; used by track-end watchers and batch
// resolution, which must never deadlock against a closing session.
func (s *Session) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.closed:
	}
}

// GuildID returns the guild this session belongs to.
func (s *Session) GuildID() string { return s.guildID }

// Play resolves the query and enqueues the result. Playlist and album queries
// get their first member resolved synchronously; the rest fills in through a
// background task that keeps the original order (see batch.go). If nothing is
// playing yet, playback starts with the queue head.
func (s *Session) Play(ctx context.Context, requester, query string) (PlayResult, error) {
	var (
		res  PlayResult
		rerr error
	)
	err := s.do(func() {
		if s.resolver.IsBatch(query) {
			res, rerr = s.playBatch(ctx, requester, query)
			return
		}
		t, err := s.resolver.Resolve(ctx, query, requester)
		if err != nil {
			rerr = err
			return
		}
		s.enqueueLocked(t)
		res = PlayResult{Track: t, Total: 1}
	})
	if err != nil {
		return PlayResult{}, err
	}
	return res, rerr
}

// enqueueLocked appends a track and kicks playback if the session is idle.
// Loop-confined.
func (s *Session) enqueueLocked(t Track) {
	s.queue.Enqueue(t)
	s.notifier.QueueChanged(s.guildID, s.queue.Snapshot())
	s.startIfIdle()
}

// startIfIdle dequeues the head and starts it when nothing is playing.
// Loop-confined.
func (s *Session) startIfIdle() {
	if s.state != StateConnectedIdle {
		return
	}
	s.advance(nil)
}

// Skip forces the current track to end. The queue then advances through the
// regular track-end path, consulting autoplay when it runs dry.
func (s *Session) Skip() (Track, error) {
	var (
		skipped Track
		rerr    error
	)
	err := s.do(func() {
		if s.playback == nil || s.current == nil {
			rerr = &QueueError{Reason: "nothing is playing"}
			return
		}
		skipped = *s.current
		if s.state == StatePaused {
			s.playback.SetPaused(false)
		}
		s.playback.Stop()
	})
	if err != nil {
		return Track{}, err
	}
	return skipped, rerr
}

// Stop halts playback and clears the queue but stays connected. In-flight
// batch resolution and autoplay lookups are cancelled so no late items
// trickle in; a session that is idle but still has such work pending counts
// as stoppable.
func (s *Session) Stop() error {
	var rerr error
	err := s.do(func() {
		if s.state == StateConnectedIdle && s.queue.Len() == 0 &&
			s.pendingBatches == 0 && s.autoplayCancel == nil {
			rerr = &QueueError{Reason: "nothing to stop"}
			return
		}
		s.stopLocked()
	})
	if err != nil {
		return err
	}
	return rerr
}

// stopLocked halts audio and empties the queue. Loop-confined.
func (s *Session) stopLocked() {
	// Bump the generation first so the pending end event and any in-flight
	// autoplay result are ignored and the queue does not advance.
	s.playbackGen++
	if s.batchCancel != nil {
		s.batchCancel()
		s.batchCancel = nil
	}
	s.pendingBatches = 0
	if s.autoplayCancel != nil {
		s.autoplayCancel()
		s.autoplayCancel = nil
	}
	if s.playback != nil {
		pb := s.playback
		s.playback = nil
		pb.SetPaused(false)
		pb.Stop()
	}
	s.current = nil
	s.queue.Clear()
	s.state = StateConnectedIdle
	s.notifier.QueueChanged(s.guildID, nil)
	s.log.Info().Msg("playback stopped, queue cleared")
}

// Pause toggles between Playing and Paused without touching the queue or the
// current track. It reports whether playback is paused afterwards.
func (s *Session) Pause() (bool, error) {
	var (
		paused bool
		rerr   error
	)
	err := s.do(func() {
		switch s.state {
		case StatePlaying:
			s.playback.SetPaused(true)
			s.state = StatePaused
			paused = true
		case StatePaused:
			s.playback.SetPaused(false)
			s.state = StatePlaying
		default:
			rerr = &QueueError{Reason: "nothing is playing"}
		}
	})
	if err != nil {
		return false, err
	}
	return paused, rerr
}

// Remove deletes the queue entry at the given 1-based position.
func (s *Session) Remove(position int) (Track, error) {
	var (
		removed Track
		rerr    error
	)
	err := s.do(func() {
		removed, rerr = s.queue.Remove(position)
		if rerr == nil {
			s.notifier.QueueChanged(s.guildID, s.queue.Snapshot())
		}
	})
	if err != nil {
		return Track{}, err
	}
	return removed, rerr
}

// QueueView returns an ordered copy of the queued tracks.
func (s *Session) QueueView() []Track {
	var snap []Track
	if err := s.do(func() { snap = s.queue.Snapshot() }); err != nil {
		return nil
	}
	return snap
}

// NowPlaying returns the current track, if any, and the session state.
func (s *Session) NowPlaying() (Track, State, bool) {
	var (
		t  Track
		st State
		ok bool
	)
	if err := s.do(func() {
		st = s.state
		if s.current != nil {
			t = *s.current
			ok = true
		}
	}); err != nil {
		return Track{}, StateDisconnected, false
	}
	return t, st, ok
}

// SetAutoplay flips the autoplay flag and persists it when a settings store
// is wired in.
func (s *Session) SetAutoplay(enabled bool) error {
	return s.do(func() {
		s.autoplayOn = enabled
		if s.settings != nil {
			if err := s.settings.SetAutoplayEnabled(s.guildID, enabled); err != nil {
				s.log.Error().Err(err).Msg("failed to persist autoplay setting")
			}
		}
		s.log.Info().Bool("enabled", enabled).Msg("autoplay toggled")
	})
}

// AutoplayEnabled reports the current autoplay flag.
func (s *Session) AutoplayEnabled() bool {
	var on bool
	_ = s.do(func() { on = s.autoplayOn })
	return on
}

// State returns the current playback state.
func (s *Session) State() State {
	st := StateDisconnected
	_ = s.do(func() { st = s.state })
	return st
}

// Close halts audio, cancels all background work and releases the voice
// connection. The session accepts no commands afterwards. Called by the
// registry on leave; idempotent through the registry.
func (s *Session) Close() {
	_ = s.do(func() {
		s.cancel()
		s.playbackGen++
		if s.autoplayCancel != nil {
			s.autoplayCancel()
			s.autoplayCancel = nil
		}
		if s.playback != nil {
			pb := s.playback
			s.playback = nil
			pb.SetPaused(false)
			pb.Stop()
		}
		s.queue.Clear()
		s.current = nil
		s.state = StateDisconnected
		if err := s.conn.Disconnect(); err != nil {
			s.log.Warn().Err(err).Msg("voice disconnect failed")
		}
		s.stopping = true
		s.log.Info().Msg("session closed")
	})
	if s.onClose != nil {
		s.onClose()
	}
}

// startTrack begins playback of t and watches for its end event.
// Loop-confined. Returns an error when the stream could not even start.
func (s *Session) startTrack(t Track) error {
	pb, err := s.conn.Play(t)
	if err != nil {
		perr := &PlaybackError{Track: t.Title, Err: err}
		s.log.Warn().Err(err).Str("track", t.Title).Msg("failed to start track")
		s.notifier.PlaybackWarning(s.guildID, t, perr)
		return perr
	}
	if s.autoplayCancel != nil {
		// A queued track supersedes any recommendation still in flight.
		s.autoplayCancel()
		s.autoplayCancel = nil
	}
	track := t
	s.playback = pb
	s.current = &track
	s.state = StatePlaying
	s.playbackGen++
	gen := s.playbackGen

	go func() {
		err := <-pb.Done()
		s.post(func() { s.onTrackEnd(gen, err) })
	}()

	s.notifier.NowPlaying(s.guildID, track)
	s.log.Info().Str("track", track.Title).Str("origin", track.Origin.String()).Msg("now playing")
	return nil
}

// onTrackEnd handles one playback end event, natural or forced. Stale events
// from a superseded playback generation are dropped. Loop-confined.
func (s *Session) onTrackEnd(gen int, err error) {
	if gen != s.playbackGen || s.current == nil {
		return
	}
	finished := *s.current
	if err != nil {
		perr := &PlaybackError{Track: finished.Title, Err: err}
		s.log.Warn().Err(err).Str("track", finished.Title).Msg("playback failed mid-stream")
		s.notifier.PlaybackWarning(s.guildID, finished, perr)
	}
	s.playback = nil
	s.current = nil
	s.advance(&finished)
}

// advance starts the next playable track: queue head first, then an autoplay
// recommendation seeded by the finished track, otherwise the session settles
// in ConnectedIdle. Loop-confined.
func (s *Session) advance(seed *Track) {
	for {
		if t, ok := s.queue.DequeueNext(); ok {
			s.notifier.QueueChanged(s.guildID, s.queue.Snapshot())
			if s.startTrack(t) == nil {
				return
			}
			// Broken stream: keep going with the rest of the queue.
			continue
		}
		if s.autoplayOn && seed != nil && s.autoplay != nil {
			s.lookupNext(*seed)
			return
		}
		s.state = StateConnectedIdle
		return
	}
}

// lookupNext runs the autoplay recommendation off-loop so a stop or leave
// issued during a slow lookup is never stuck behind it. The result comes back
// through the mailbox and is dropped when a newer generation has taken over
// in the meantime. Loop-confined.
func (s *Session) lookupNext(seed Track) {
	s.state = StateConnectedIdle
	s.playbackGen++
	gen := s.playbackGen

	ctx, cancel := context.WithTimeout(s.ctx, s.lookupTimeout)
	s.autoplayCancel = cancel
	go func() {
		defer cancel()
		next, ok := s.autoplay.Next(ctx, seed)
		if ctx.Err() != nil {
			ok = false
		}
		s.post(func() { s.onAutoplayResult(gen, seed, next, ok) })
	}()
}

// onAutoplayResult handles one autoplay lookup outcome. Loop-confined.
func (s *Session) onAutoplayResult(gen int, seed, next Track, ok bool) {
	if gen != s.playbackGen {
		return
	}
	s.autoplayCancel = nil
	if !ok {
		s.log.Debug().Str("seed", seed.Title).Msg("autoplay yielded no candidate")
		return
	}
	if s.startTrack(next) != nil {
		// The candidate's stream broke before starting; fall back to the
		// queue and, failing that, chain off the candidate.
		s.advance(&next)
	}
}
