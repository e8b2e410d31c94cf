package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	AppEnv         string   `env:"APP_ENV" envDefault:"local"`
	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Result store. Postgres wins when both are set; neither disables recording.
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH"`

	MinParticipants   int     `env:"MIN_PARTICIPANTS" envDefault:"1"`
	BuildSeconds      int     `env:"BUILD_SECONDS" envDefault:"60"`
	DiscussionSeconds int     `env:"DISCUSSION_SECONDS" envDefault:"30"`
	VotingSeconds     int     `env:"VOTING_SECONDS" envDefault:"0"`
	SabotageRadius    float64 `env:"SABOTAGE_RADIUS" envDefault:"3"`
	FloorY            float64 `env:"FLOOR_Y" envDefault:"-1"`
	MaxBlocksPerRoom  int     `env:"MAX_BLOCKS_PER_ROOM" envDefault:"0"`
	ObjectivesFile    string  `env:"OBJECTIVES_FILE"`

	SinkTimeout     time.Duration `env:"SINK_TIMEOUT" envDefault:"5s"`
	InboundRate     float64       `env:"INBOUND_RATE" envDefault:"30"`
	InboundBurst    int           `env:"INBOUND_BURST" envDefault:"60"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		// a missing .env is normal outside local development
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.MinParticipants < 1 {
		errs = append(errs, fmt.Errorf("MIN_PARTICIPANTS must be at least 1, got %d", c.MinParticipants))
	}
	if c.BuildSeconds <= 0 {
		errs = append(errs, fmt.Errorf("BUILD_SECONDS must be positive, got %d", c.BuildSeconds))
	}
	if c.DiscussionSeconds <= 0 {
		errs = append(errs, fmt.Errorf("DISCUSSION_SECONDS must be positive, got %d", c.DiscussionSeconds))
	}
	if c.VotingSeconds < 0 {
		errs = append(errs, fmt.Errorf("VOTING_SECONDS must not be negative, got %d", c.VotingSeconds))
	}
	if c.SabotageRadius < 0 {
		errs = append(errs, fmt.Errorf("SABOTAGE_RADIUS must not be negative, got %v", c.SabotageRadius))
	}
	if math.IsNaN(c.FloorY) || math.IsInf(c.FloorY, 0) || c.FloorY*2 != math.Trunc(c.FloorY*2) {
		errs = append(errs, fmt.Errorf("FLOOR_Y must be a multiple of 0.5, got %v", c.FloorY))
	}
	if c.MaxBlocksPerRoom < 0 {
		errs = append(errs, fmt.Errorf("MAX_BLOCKS_PER_ROOM must not be negative, got %d", c.MaxBlocksPerRoom))
	}
	if c.SinkTimeout <= 0 || c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SINK_TIMEOUT and SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.InboundRate <= 0 || c.InboundBurst <= 0 {
		errs = append(errs, errors.New("INBOUND_RATE and INBOUND_BURST must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) IsLocal() bool {
	return c.AppEnv == "local"
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
