package commands

import (
	"github.com/bwmarrin/discordgo"
)

// PauseCommand toggles between paused and playing without touching the queue.
func PauseCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess := activeSession(s, m)
	if sess == nil {
		return
	}
	paused, err := sess.Pause()
	if err != nil {
		sendPlayerError(s, m.ChannelID, err)
		return
	}
	if paused {
		sendEmbedMessage(s, m.ChannelID, "⏸️ Paused", "Playback paused. Use `!pause` or `!resume` to continue.", colorGreen)
	} else {
		sendEmbedMessage(s, m.ChannelID, "▶️ Resumed", "Playback resumed.", colorGreen)
	}
}

// ResumeCommand resumes paused playback. It shares the toggle with pause but
// refuses to pause, so `!resume` while playing is a no-op message.
func ResumeCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess := activeSession(s, m)
	if sess == nil {
		return
	}
	if _, _, ok := sess.NowPlaying(); !ok {
		sendEmbedMessage(s, m.ChannelID, "🔇 Nothing Playing", "There's nothing to resume.", colorGray)
		return
	}
	paused, err := sess.Pause()
	if err != nil {
		sendPlayerError(s, m.ChannelID, err)
		return
	}
	if paused {
		// The toggle just paused a playing track; flip it back.
		if _, err := sess.Pause(); err == nil {
			sendEmbedMessage(s, m.ChannelID, "▶️ Already Playing", "Playback wasn't paused.", colorGray)
		}
		return
	}
	sendEmbedMessage(s, m.ChannelID, "▶️ Resumed", "Playback resumed.", colorGreen)
}
