package commands

import (
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// RemoveCommand deletes a single queue entry by its 1-based position as shown
// by the queue command.
func RemoveCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!remove <position>` (see `!queue` for positions).", colorRed)
		return
	}
	position, err := strconv.Atoi(args[0])
	if err != nil || position < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", fmt.Sprintf("`%s` is not a valid queue position.", args[0]), colorRed)
		return
	}

	sess := activeSession(s, m)
	if sess == nil {
		return
	}
	removed, err := sess.Remove(position)
	if err != nil {
		sendPlayerError(s, m.ChannelID, err)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "🗑️ Removed", fmt.Sprintf("Removed **%s** from the queue.", removed.Title), colorGreen)
}
