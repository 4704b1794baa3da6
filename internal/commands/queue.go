package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// queueDisplayLimit caps how many entries the queue embed lists.
const queueDisplayLimit = 15

// QueueCommand shows the current track and the upcoming queue in order.
func QueueCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	sess := activeSession(s, m)
	if sess == nil {
		return
	}

	var b strings.Builder
	if current, _, ok := sess.NowPlaying(); ok {
		fmt.Fprintf(&b, "**Now Playing:** %s\n\n", current.Title)
	}

	queue := sess.QueueView()
	if len(queue) == 0 {
		if b.Len() == 0 {
			sendEmbedMessage(s, m.ChannelID, "📜 Queue", "The queue is empty.", colorGray)
			return
		}
		b.WriteString("The queue is empty.")
	} else {
		for i, t := range queue {
			if i >= queueDisplayLimit {
				fmt.Fprintf(&b, "...and %d more", len(queue)-queueDisplayLimit)
				break
			}
			fmt.Fprintf(&b, "`%d.` %s", i+1, t.Title)
			if t.RequestedBy != "" {
				fmt.Fprintf(&b, " — %s", t.RequestedBy)
			}
			b.WriteString("\n")
		}
	}

	sendEmbedMessage(s, m.ChannelID, "📜 Queue", b.String(), colorBlue)
}
