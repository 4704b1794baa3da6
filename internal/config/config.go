package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is everything the bot reads from the environment.
type Config struct {
	DiscordToken  string `env:"DISCORD_TOKEN,required"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	OllamaHost  string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel string `env:"OLLAMA_MODEL" envDefault:"llama3.1"`
	BraveAPIKey string `env:"BRAVE_API_KEY"`

	DatabasePath string `env:"DATABASE_PATH" envDefault:"mejiro.db"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"30s"`
}

// LoadConfig reads .env (when present) and the environment into a Config.
func LoadConfig() (*Config, error) {
	// A missing .env file is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	return &cfg, nil
}
