package commands

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Mejiro/pkg/player"
)

// Announcer renders player notifications as channel messages. It remembers
// the text channel each guild last issued a music command in and posts the
// now-playing / warning embeds there.
type Announcer struct {
	session *discordgo.Session

	mu       sync.RWMutex
	channels map[string]string
}

// NewAnnouncer creates an announcer bound to a Discord session.
func NewAnnouncer(session *discordgo.Session) *Announcer {
	return &Announcer{
		session:  session,
		channels: make(map[string]string),
	}
}

// BindChannel records where notifications for a guild should go.
func (a *Announcer) BindChannel(guildID, channelID string) {
	a.mu.Lock()
	a.channels[guildID] = channelID
	a.mu.Unlock()
}

func (a *Announcer) channel(guildID string) string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.channels[guildID]
}

// NowPlaying implements player.Notifier.
func (a *Announcer) NowPlaying(guildID string, t player.Track) {
	if presenceManager != nil {
		presenceManager.UpdateMusicPresence(t.Title)
	}
	channelID := a.channel(guildID)
	if channelID == "" {
		return
	}
	description := fmt.Sprintf("**%s**", t.Title)
	if t.Duration > 0 {
		description += fmt.Sprintf("\nDuration: `%s`", formatDuration(t.Duration))
	}
	if t.RequestedBy != "" {
		description += fmt.Sprintf("\nRequested by: %s", t.RequestedBy)
	}
	sendEmbedMessage(a.session, channelID, "🎵 Now Playing", description, colorGreen)
}

// QueueChanged implements player.Notifier. Queue contents show up in the
// queue command output; an embed per mutation would be noise, so this only
// refreshes the presence once playback has gone quiet. The session check runs
// off-loop: notifier callbacks fire from inside the session's command loop
// and must not issue session commands themselves.
func (a *Announcer) QueueChanged(guildID string, queue []player.Track) {
	if len(queue) != 0 || presenceManager == nil {
		return
	}
	go func() {
		if sess := players.Get(guildID); sess == nil || sess.State() != player.StatePlaying {
			presenceManager.UpdateDefaultPresence()
		}
	}()
}

// PlaybackWarning implements player.Notifier.
func (a *Announcer) PlaybackWarning(guildID string, t player.Track, err error) {
	channelID := a.channel(guildID)
	if channelID == "" {
		return
	}
	sendEmbedMessage(a.session, channelID, "⚠️ Playback Trouble",
		fmt.Sprintf("**%s** cut out, moving on to the next track.", t.Title), colorGray)
}

// formatDuration renders a duration as m:ss or h:mm:ss.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
