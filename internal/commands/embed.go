package commands

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"

	"github.com/latoulicious/Mejiro/pkg/player"
)

const (
	colorGreen = 0x00ff00
	colorRed   = 0xff0000
	colorGray  = 0x808080
	colorBlue  = 0x7289DA
)

// sendEmbedMessage sends a simple embed to the channel.
func sendEmbedMessage(s *discordgo.Session, channelID, title, description string, color int) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Error().Err(err).Str("channel_id", channelID).Msg("failed to send embed")
	}
}

// sendPlayerError renders a player error with a title matching its kind.
func sendPlayerError(s *discordgo.Session, channelID string, err error) {
	var (
		connErr  *player.ConnectionError
		resErr   *player.ResolutionError
		queueErr *player.QueueError
	)
	switch {
	case errors.As(err, &connErr):
		sendEmbedMessage(s, channelID, "❌ Voice Error", "Could not join the voice channel. Check my permissions and try again.", colorRed)
	case errors.As(err, &resErr):
		sendEmbedMessage(s, channelID, "❌ Resolution Error", "I couldn't find anything playable for that query.", colorRed)
	case errors.As(err, &queueErr):
		sendEmbedMessage(s, channelID, "❌ Queue Error", queueErr.Reason, colorRed)
	case errors.Is(err, player.ErrSessionClosed):
		sendEmbedMessage(s, channelID, "🔇 Not Connected", "I'm not in a voice channel here.", colorGray)
	default:
		sendEmbedMessage(s, channelID, "❌ Error", "Something went wrong. Try again.", colorRed)
	}
}

// activeSession fetches the guild's session, telling the user off when the
// bot is not connected.
func activeSession(s *discordgo.Session, m *discordgo.MessageCreate) *player.Session {
	sess := players.Get(m.GuildID)
	if sess == nil {
		sendEmbedMessage(s, m.ChannelID, "🔇 Not Connected", "I'm not in a voice channel here. Use `!play` first.", colorGray)
		return nil
	}
	return sess
}
