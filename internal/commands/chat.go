package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Mejiro/pkg/brave"
)

// discordMessageLimit is Discord's per-message character cap.
const discordMessageLimit = 2000

// ChatCommand sends the prompt to the AI model, keeping a short per-user
// conversation history for follow-ups.
func ChatCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if ai == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Unavailable", "AI chat is not configured.", colorRed)
		return
	}
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!chat <message>`", colorRed)
		return
	}
	prompt := strings.Join(args, " ")

	s.ChannelTyping(m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reply, err := ai.Chat(ctx, m.Author.ID, prompt)
	if err != nil {
		logger.Warn().Err(err).Msg("ai chat failed")
		sendEmbedMessage(s, m.ChannelID, "❌ Chat Failed", "The AI backend didn't answer. Is it running?", colorRed)
		return
	}
	sendChunked(s, m.ChannelID, reply)
}

// SearchCommand runs a web search and has the AI summarize the results.
func SearchCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if websearch == nil || ai == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Unavailable", "Web search is not configured.", colorRed)
		return
	}
	if len(args) < 1 {
		sendEmbedMessage(s, m.ChannelID, "❌ Usage Error", "Usage: `!search <query>`", colorRed)
		return
	}
	query := strings.Join(args, " ")

	s.ChannelTyping(m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results, err := websearch.Search(ctx, query, 5)
	if err != nil {
		logger.Warn().Err(err).Str("query", query).Msg("web search failed")
		sendEmbedMessage(s, m.ChannelID, "❌ Search Failed", "Web search didn't return anything.", colorRed)
		return
	}
	if len(results) == 0 {
		sendEmbedMessage(s, m.ChannelID, "🔍 No Results", fmt.Sprintf("Nothing found for `%s`.", query), colorGray)
		return
	}

	prompt := fmt.Sprintf(
		"Answer the question using these search results. Cite sources by URL.\n\n%sQuestion: %s",
		brave.FormatResults(results, query), query)
	// Stateless chat: summaries shouldn't pollute the user's conversation.
	reply, err := ai.Chat(ctx, "", prompt)
	if err != nil {
		logger.Warn().Err(err).Msg("search summarization failed")
		sendEmbedMessage(s, m.ChannelID, "❌ Search Failed", "Couldn't summarize the results.", colorRed)
		return
	}
	sendChunked(s, m.ChannelID, reply)
}

// ModelCommand shows or switches the AI model.
func ModelCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if ai == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Unavailable", "AI chat is not configured.", colorRed)
		return
	}
	if len(args) == 0 {
		sendEmbedMessage(s, m.ChannelID, "🤖 Current Model",
			fmt.Sprintf("Using `%s`. Switch with `!aimodel <name>`.", ai.Model()), colorBlue)
		return
	}
	ai.SetModel(args[0])
	sendEmbedMessage(s, m.ChannelID, "🤖 Model Changed", fmt.Sprintf("Now using `%s`.", args[0]), colorGreen)
}

// ModelsCommand lists the models the AI backend has available.
func ModelsCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if ai == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Unavailable", "AI chat is not configured.", colorRed)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	models, err := ai.ListModels(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("model listing failed")
		sendEmbedMessage(s, m.ChannelID, "❌ Listing Failed", "Couldn't reach the AI backend.", colorRed)
		return
	}
	if len(models) == 0 {
		sendEmbedMessage(s, m.ChannelID, "🤖 Models", "No models pulled yet.", colorGray)
		return
	}
	sendEmbedMessage(s, m.ChannelID, "🤖 Available Models", "`"+strings.Join(models, "`\n`")+"`", colorBlue)
}

// ClearChatCommand forgets the caller's conversation history.
func ClearChatCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	if ai == nil {
		sendEmbedMessage(s, m.ChannelID, "❌ Unavailable", "AI chat is not configured.", colorRed)
		return
	}
	ai.ClearHistory(m.Author.ID)
	sendEmbedMessage(s, m.ChannelID, "🧹 History Cleared", "Your chat history was forgotten.", colorGreen)
}

// sendChunked splits long replies across messages under Discord's limit.
func sendChunked(s *discordgo.Session, channelID, text string) {
	for len(text) > discordMessageLimit {
		cut := strings.LastIndex(text[:discordMessageLimit], "\n")
		if cut < discordMessageLimit/2 {
			cut = discordMessageLimit
		}
		if _, err := s.ChannelMessageSend(channelID, text[:cut]); err != nil {
			logger.Error().Err(err).Msg("failed to send chunk")
			return
		}
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		if _, err := s.ChannelMessageSend(channelID, text); err != nil {
			logger.Error().Err(err).Msg("failed to send message")
		}
	}
}
