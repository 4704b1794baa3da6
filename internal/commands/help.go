package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// HelpCommand lists every command the bot understands.
func HelpCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "📖 Commands",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "🎵 Music",
				Value: "`!play <url|search>` — play a track, playlist, or album (`!p` works too)\n" +
					"`!pause` / `!resume` — pause or resume playback\n" +
					"`!skip` — skip the current track\n" +
					"`!stop` — stop and clear the queue\n" +
					"`!queue` — show the queue\n" +
					"`!remove <n>` — remove queue entry n\n" +
					"`!nowplaying` — show the current track (`!np`)\n" +
					"`!autoplay [on|off]` — keep playing related tracks\n" +
					"`!leave` — disconnect from voice",
			},
			{
				Name: "🤖 AI",
				Value: "`!chat <message>` — talk to the AI\n" +
					"`!search <query>` — web search with an AI summary\n" +
					"`!aimodel [name]` — show or switch the model\n" +
					"`!aimodels` — list available models\n" +
					"`!clearchat` — forget your conversation",
			},
			{
				Name:  "💰 Crypto",
				Value: "`!coin <id>` — current price and market data (e.g. `!coin bitcoin`)",
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		logger.Error().Err(err).Msg("failed to send help")
	}
}
