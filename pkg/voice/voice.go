// Package voice is the discordgo-backed voice transport. It implements the
// player.Connector, player.Connection and player.Playback interfaces: joining
// guild voice channels and streaming resolved tracks through an
// ffmpeg → PCM → Opus pipeline into the Discord voice gateway.
package voice

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/latoulicious/Mejiro/pkg/player"
)

// readyTimeout caps how long a join waits for the voice gateway handshake.
const readyTimeout = 10 * time.Second

// Manager joins voice channels on behalf of the session registry.
type Manager struct {
	dg  *discordgo.Session
	log zerolog.Logger
}

// NewManager creates a voice manager bound to a Discord session.
func NewManager(dg *discordgo.Session, logger zerolog.Logger) *Manager {
	return &Manager{
		dg:  dg,
		log: logger.With().Str("component", "voice").Logger(),
	}
}

// Join implements player.Connector. It joins the channel and waits for the
// connection to report ready before handing the handle over.
func (m *Manager) Join(ctx context.Context, guildID, channelID string) (player.Connection, error) {
	vc, err := m.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, errors.Wrap(err, "failed to join voice channel")
	}

	timeout := time.After(readyTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for !vc.Ready {
		select {
		case <-ctx.Done():
			vc.Disconnect()
			return nil, ctx.Err()
		case <-timeout:
			vc.Disconnect()
			return nil, errors.New("voice connection timed out")
		case <-ticker.C:
		}
	}

	m.log.Info().Str("guild_id", guildID).Str("channel_id", channelID).Msg("joined voice channel")
	return &Conn{
		vc:  vc,
		log: m.log.With().Str("guild_id", guildID).Logger(),
	}, nil
}

// Conn is the exclusive voice handle for one guild.
type Conn struct {
	vc  *discordgo.VoiceConnection
	log zerolog.Logger
}

// Play implements player.Connection by spinning up a streaming pipeline for
// the track. The returned handle delivers exactly one end event.
func (c *Conn) Play(t player.Track) (player.Playback, error) {
	if t.StreamURL == "" {
		return nil, errors.New("track has no stream URL")
	}
	p := newPlayback(c.vc, t, c.log)
	p.start()
	return p, nil
}

// Disconnect leaves the voice channel.
func (c *Conn) Disconnect() error {
	return c.vc.Disconnect()
}

// FindUserVoiceChannel returns the voice channel the user currently sits in,
// or an error when they are not in any. Used by the command layer to decide
// where play should join.
func FindUserVoiceChannel(s *discordgo.Session, guildID, userID string) (string, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return "", errors.Wrap(err, "could not find guild")
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID, nil
		}
	}
	return "", errors.New("you must be in a voice channel to play music")
}
