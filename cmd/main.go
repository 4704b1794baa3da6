package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"github.com/latoulicious/Mejiro/internal/commands"
	"github.com/latoulicious/Mejiro/internal/config"
	"github.com/latoulicious/Mejiro/internal/handlers"
	"github.com/latoulicious/Mejiro/internal/logging"
	"github.com/latoulicious/Mejiro/internal/presence"
	"github.com/latoulicious/Mejiro/pkg/brave"
	"github.com/latoulicious/Mejiro/pkg/coingecko"
	"github.com/latoulicious/Mejiro/pkg/database"
	"github.com/latoulicious/Mejiro/pkg/ollama"
	"github.com/latoulicious/Mejiro/pkg/player"
	"github.com/latoulicious/Mejiro/pkg/resolver"
	"github.com/latoulicious/Mejiro/pkg/voice"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logging.New("info", "")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFile)

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Discord session")
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	store, err := database.New(cfg.DatabasePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open settings database")
	}
	defer store.Close()

	res := resolver.New(resolver.Config{
		Spotify: resolver.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret),
		Logger:  log,
		Timeout: cfg.ResolveTimeout,
	})

	announcer := commands.NewAnnouncer(dg)

	players := player.NewRegistry(player.RegistryConfig{
		Connector:     voice.NewManager(dg, log),
		Resolver:      res,
		Autoplay:      resolver.NewAutoplayEngine(res, log),
		Notifier:      announcer,
		Settings:      store,
		Logger:        log,
		LookupTimeout: cfg.ResolveTimeout,
	})

	presenceManager := presence.NewPresenceManager(dg, log)

	commands.Setup(commands.Deps{
		Players:   players,
		Gecko:     coingecko.New(),
		AI:        ollama.New(cfg.OllamaHost, cfg.OllamaModel),
		Websearch: brave.New(cfg.BraveAPIKey),
		Presence:  presenceManager,
		Logger:    log,
	})
	commands.SetAnnouncer(announcer)

	handlers.SetPrefix(cfg.CommandPrefix)
	dg.AddHandler(handlers.MessageHandler)

	if err := dg.Open(); err != nil {
		log.Fatal().Err(err).Msg("failed to open Discord session")
	}

	presenceManager.UpdateDefaultPresence()
	presenceManager.StartPeriodicUpdates()

	log.Info().Msg("bot is running, press CTRL-C to exit")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info().Msg("shutting down")
	for _, sess := range players.Sessions() {
		sess.Close()
	}
	if err := dg.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing Discord session")
	}
}
