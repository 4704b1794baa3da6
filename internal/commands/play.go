package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Mejiro/pkg/voice"
)

// announcer is set alongside Setup; play records the invoking text channel so
// now-playing notifications land where the user is looking.
var announcer *Announcer

// SetAnnouncer wires the notification sink used by the player.
func SetAnnouncer(a *Announcer) {
	announcer = a
}

// PlayCommand resolves the query (URL, search terms, or Spotify link) and
// queues the result, joining the caller's voice channel when needed.
func PlayCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Please provide a URL, a Spotify link, or search keywords.", colorRed)
		return
	}
	query := strings.Join(args, " ")

	channelID, err := voice.FindUserVoiceChannel(s, m.GuildID, m.Author.ID)
	if err != nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Voice Error", "You must be in a voice channel to play music.", colorRed)
		return
	}

	if announcer != nil {
		announcer.BindChannel(m.GuildID, m.ChannelID)
	}

	ctx := context.Background()
	sess, err := players.GetOrCreate(ctx, m.GuildID, channelID)
	if err != nil {
		logger.Error().Err(err).Str("guild_id", m.GuildID).Msg("failed to create session")
		sendPlayerError(s, m.ChannelID, err)
		return
	}

	res, err := sess.Play(ctx, m.Author.Username, query)
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("play failed")
		sendPlayerError(s, m.ChannelID, err)
		return
	}

	if res.Total > 1 {
		sendEmbedMessage(s, m.ChannelID, "🎵 Playlist Added",
			fmt.Sprintf("✅ Queued **%s** and %d more tracks (they'll fill in shortly).", res.Track.Title, res.Total-1),
			colorGreen)
		return
	}
	position := len(sess.QueueView())
	description := fmt.Sprintf("✅ Added **%s** to queue", res.Track.Title)
	if position > 0 {
		description += fmt.Sprintf(" (Position: %d)", position)
	}
	sendEmbedMessage(s, m.ChannelID, "🎵 Song Added", description, colorGreen)
}
