package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// SkipCommand forces the current track to end; the queue (or autoplay) picks
// the next one.
func SkipCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess := activeSession(s, m)
	if sess == nil {
		return
	}
	skipped, err := sess.Skip()
	if err != nil {
		sendPlayerError(s, m.ChannelID, err)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "⏭️ Skipped", fmt.Sprintf("Skipped **%s**.", skipped.Title), colorGreen)
}
