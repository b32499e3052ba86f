package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds application configuration
type Config struct {
	ServerPort      string        `env:"PORT" envDefault:"8080"`
	DatabaseType    string        `env:"DATABASE_TYPE" envDefault:"sqlite"`
	DatabasePath    string        `env:"DB_PATH" envDefault:"./zahlentrainer.db"`
	DatabaseURL     string        `env:"DATABASE_URL"`
	HistoryLimit    int           `env:"HISTORY_LIMIT" envDefault:"1000"`
	AudioPath       string        `env:"AUDIO_PATH" envDefault:"./static/audio"`
	TTSEnabled      bool          `env:"TTS_ENABLED" envDefault:"false"`
	TTSLanguage     string        `env:"TTS_LANGUAGE" envDefault:"de-DE"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"text"`
	RateLimit       int           `env:"RATE_LIMIT" envDefault:"120"`
	RateWindow      time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
	TrustProxy      bool          `env:"TRUST_PROXY" envDefault:"false"` // read X-Forwarded-For/X-Real-IP; enable only behind a reverse proxy
	CORSOrigins     []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.HistoryLimit <= 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT must be positive, got %d", cfg.RateLimit)
	}
	return cfg, nil
}
