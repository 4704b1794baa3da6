package commands

import (
	"github.com/bwmarrin/discordgo"
)

// StopCommand halts playback and clears the queue. The bot stays in the
// voice channel; use leave to disconnect it.
func StopCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess := activeSession(s, m)
	if sess == nil {
		return
	}
	if err := sess.Stop(); err != nil {
		sendPlayerError(s, m.ChannelID, err)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "⏹️ Stopped", "Playback stopped and queue cleared.", colorGreen)
}
