package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// AutoplayCommand toggles or reports related-track autoplay for the guild.
// The setting persists across restarts.
func AutoplayCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	sess := activeSession(s, m)
	if sess == nil {
		return
	}

	if len(args) == 0 {
		state := "off"
		if sess.AutoplayEnabled() {
			state = "on"
		}
		sendEmbedMessage(s, m.ChannelID, "🔁 Autoplay",
			"Autoplay is currently **"+state+"**. Use `!autoplay on` or `!autoplay off` to change it.", colorBlue)
		return
	}

	var enabled bool
	switch strings.ToLower(args[0]) {
	case "on", "enable", "true":
		enabled = true
	case "off", "disable", "false":
		enabled = false
	default:
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!autoplay [on|off]`", colorRed)
		return
	}

	if err := sess.SetAutoplay(enabled); err != nil {
		sendPlayerError(s, m.ChannelID, err)
		return
	}
	if enabled {
		sendEmbedMessage(s, m.ChannelID, "🔁 Autoplay On",
			"I'll keep the music going with related tracks when the queue runs out.", colorGreen)
	} else {
		sendEmbedMessage(s, m.ChannelID, "🔁 Autoplay Off",
			"Playback will stop when the queue runs out.", colorGreen)
	}
}
