package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Mejiro/pkg/player"
)

// NowPlayingCommand shows the current track and playback state.
func NowPlayingCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess := activeSession(s, m)
	if sess == nil {
		return
	}

	t, state, ok := sess.NowPlaying()
	if !ok {
		sendEmbedMessage(s, m.ChannelID, "🔇 Nothing Playing", "Nothing is playing right now.", colorGray)
		return
	}

	description := fmt.Sprintf("**%s**", t.Title)
	if t.Duration > 0 {
		description += fmt.Sprintf("\nDuration: `%s`", formatDuration(t.Duration))
	}
	if t.RequestedBy != "" {
		description += fmt.Sprintf("\nRequested by: %s", t.RequestedBy)
	}
	if state == player.StatePaused {
		description += "\n*(paused)*"
	}
	sendEmbedMessage(s, m.ChannelID, "🎵 Now Playing", description, colorBlue)
}
