// Package presence keeps the bot's Discord status line in sync with what it
// is doing: server stats when idle, the track title while music plays.
package presence

import (
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// updateInterval is how often the default presence refreshes its stats.
const updateInterval = 5 * time.Minute

// PresenceManager manages the bot's presence.
type PresenceManager struct {
	session *discordgo.Session
	log     zerolog.Logger

	mu      sync.RWMutex
	current string
}

// NewPresenceManager creates a presence manager bound to a Discord session.
func NewPresenceManager(session *discordgo.Session, log zerolog.Logger) *PresenceManager {
	return &PresenceManager{
		session: session,
		log:     log.With().Str("component", "presence").Logger(),
	}
}

// UpdateDefaultPresence shows server statistics in the status line.
func (pm *PresenceManager) UpdateDefaultPresence() {
	guilds := pm.session.State.Guilds
	if len(guilds) == 0 {
		return
	}

	totalChannels := 0
	for _, guild := range guilds {
		if guild == nil {
			continue
		}
		channels, err := pm.session.GuildChannels(guild.ID)
		if err != nil {
			pm.log.Warn().Err(err).Str("guild_id", guild.ID).Msg("failed to count channels")
			continue
		}
		totalChannels += len(channels)
	}

	err := pm.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{
				Name:  strconv.Itoa(totalChannels) + " channels",
				Type:  discordgo.ActivityTypeWatching,
				State: "in " + strconv.Itoa(len(guilds)) + " servers",
			},
		},
	})
	if err != nil {
		pm.log.Warn().Err(err).Msg("failed to update presence")
	}

	pm.mu.Lock()
	pm.current = "default"
	pm.mu.Unlock()
}

// UpdateMusicPresence shows the currently playing track title.
func (pm *PresenceManager) UpdateMusicPresence(songTitle string) {
	err := pm.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status: "online",
		Activities: []*discordgo.Activity{
			{
				Name:  "to",
				Type:  discordgo.ActivityTypeListening,
				State: songTitle,
			},
		},
	})
	if err != nil {
		pm.log.Warn().Err(err).Msg("failed to update music presence")
	}

	pm.mu.Lock()
	pm.current = "music"
	pm.mu.Unlock()
}

// GetCurrentPresence returns the current presence type.
func (pm *PresenceManager) GetCurrentPresence() string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.current
}

// StartPeriodicUpdates refreshes the default presence on a timer, leaving the
// music presence alone while something is playing.
func (pm *PresenceManager) StartPeriodicUpdates() {
	go func() {
		ticker := time.NewTicker(updateInterval)
		defer ticker.Stop()

		for range ticker.C {
			if pm.GetCurrentPresence() != "music" {
				pm.UpdateDefaultPresence()
			}
		}
	}()
}
