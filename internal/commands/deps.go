package commands

import (
	"github.com/rs/zerolog"

	"github.com/latoulicious/Mejiro/internal/presence"
	"github.com/latoulicious/Mejiro/pkg/brave"
	"github.com/latoulicious/Mejiro/pkg/coingecko"
	"github.com/latoulicious/Mejiro/pkg/ollama"
	"github.com/latoulicious/Mejiro/pkg/player"
)

// Package-level collaborators, wired once from main before the gateway opens.
var (
	players         *player.Registry
	gecko           *coingecko.Client
	ai              *ollama.Client
	websearch       *brave.Client
	presenceManager *presence.PresenceManager
	logger          zerolog.Logger
)

// Deps bundles everything the command layer needs.
type Deps struct {
	Players   *player.Registry
	Gecko     *coingecko.Client
	AI        *ollama.Client
	Websearch *brave.Client
	Presence  *presence.PresenceManager
	Logger    zerolog.Logger
}

// Setup wires the command layer's collaborators.
func Setup(d Deps) {
	players = d.Players
	gecko = d.Gecko
	ai = d.AI
	websearch = d.Websearch
	presenceManager = d.Presence
	logger = d.Logger.With().Str("component", "commands").Logger()
}
