package commands

import (
	"github.com/bwmarrin/discordgo"
)

// LeaveCommand disconnects the bot from the guild's voice channel, dropping
// the queue and any pending playlist resolution with it.
func LeaveCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if players.Get(m.GuildID) == nil {
		sendEmbedMessage(s, m.ChannelID, "🔇 Not Connected", "I'm not in a voice channel.", colorGray)
		return
	}
	players.Remove(m.GuildID)
	if presenceManager != nil {
		presenceManager.UpdateDefaultPresence()
	}
	sendEmbedMessage(s, m.ChannelID, "👋 Disconnected", "Left the voice channel.", colorGreen)
}
