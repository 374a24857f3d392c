package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config struct {
	TelemetryAddress string `env:"TELEMETRY_ADDRESS" envDefault:"0.0.0.0:20777"`
	WebserverAddress string `env:"WEBSERVER_ADDRESS" envDefault:"0.0.0.0:5000"`

	// DamagePacketID overrides the packet id treated as car damage. The game
	// itself sends damage as 10.
	DamagePacketID uint8 `env:"DAMAGE_PACKET_ID" envDefault:"9"`

	// Telegram notifications are sent only when both are set.
	TelegramToken   string  `env:"TELEGRAM_TOKEN"`
	TelegramChatIDs []int64 `env:"TELEGRAM_CHAT_IDS" envSeparator:","`

	Debug bool `env:"DEBUG"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads the configuration from environ, falling back to the process
// environment when environ is nil.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	return cfg, nil
}

func (c Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && len(c.TelegramChatIDs) > 0
}
