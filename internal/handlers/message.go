package handlers

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Mejiro/internal/commands"
)

// prefix is the command prefix, set once from main before the gateway opens.
var prefix = "!"

// SetPrefix overrides the default "!" command prefix.
func SetPrefix(p string) {
	if p != "" {
		prefix = p
	}
}

// MessageHandler dispatches prefixed commands to the command layer.
func MessageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore all messages created by the bot itself
	if m.Author.ID == s.State.User.ID {
		return
	}

	if !strings.HasPrefix(m.Content, prefix) {
		return
	}
	args := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(args) == 0 {
		return
	}
	command := strings.ToLower(args[0])
	args = args[1:]

	switch command {
	case "play", "p":
		commands.PlayCommand(s, m, args)
	case "pause":
		commands.PauseCommand(s, m)
	case "resume":
		commands.ResumeCommand(s, m)
	case "skip":
		commands.SkipCommand(s, m)
	case "stop":
		commands.StopCommand(s, m)
	case "queue", "q":
		commands.QueueCommand(s, m)
	case "remove":
		commands.RemoveCommand(s, m, args)
	case "nowplaying", "np":
		commands.NowPlayingCommand(s, m)
	case "autoplay":
		commands.AutoplayCommand(s, m, args)
	case "leave", "disconnect":
		commands.LeaveCommand(s, m)
	case "coin":
		commands.CoinCommand(s, m, args)
	case "chat":
		commands.ChatCommand(s, m, args)
	case "search":
		commands.SearchCommand(s, m, args)
	case "aimodel":
		commands.ModelCommand(s, m, args)
	case "aimodels":
		commands.ModelsCommand(s, m)
	case "clearchat":
		commands.ClearChatCommand(s, m)
	case "help":
		commands.HelpCommand(s, m)
	}
}
