package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/NuZard84/go-socket-typerace/internal/game"
)

// Config is the full runtime configuration, populated from the
// environment with the TYPERACE_ prefix. A .env file is honored when
// present, matching how the server is run in development.
type Config struct {
	Addr          string `envconfig:"ADDR" default:":8080"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"*"`
	MongoURI      string `envconfig:"MONGO_URI"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`

	MaxRooms          int `envconfig:"MAX_ROOMS" default:"100"`
	MaxPlayersPerRoom int `envconfig:"MAX_PLAYERS_PER_ROOM" default:"10"`
	MaxTextWords      int `envconfig:"MAX_TEXT_WORDS" default:"30"`

	MaxWPM              int           `envconfig:"MAX_WPM" default:"220"`
	RegressionTolerance int           `envconfig:"REGRESSION_TOLERANCE" default:"2"`
	ShrinkThreshold     int           `envconfig:"SHRINK_THRESHOLD" default:"10"`
	PasteJumpChars      int           `envconfig:"PASTE_JUMP_CHARS" default:"20"`
	PasteWindow         time.Duration `envconfig:"PASTE_WINDOW" default:"250ms"`
	SpeedFloor          time.Duration `envconfig:"SPEED_FLOOR" default:"500ms"`

	IdleGracePeriod   time.Duration `envconfig:"IDLE_GRACE_PERIOD" default:"60s"`
	FinishedRetention time.Duration `envconfig:"FINISHED_RETENTION" default:"2m"`
	RaceDurationCap   time.Duration `envconfig:"RACE_DURATION_CAP" default:"0"`

	UpdatesPerSecond float64 `envconfig:"UPDATES_PER_SECOND" default:"25"`
	UpdateBurst      int     `envconfig:"UPDATE_BURST" default:"50"`
}

func Load() (*Config, error) {
	godotenv.Load()

	var cfg Config
	if err := envconfig.Process("typerace", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Limits projects the config onto the per-room threshold set.
func (c *Config) Limits() game.Limits {
	return game.Limits{
		MaxPlayers:          c.MaxPlayersPerRoom,
		MaxWPM:              c.MaxWPM,
		RegressionTolerance: c.RegressionTolerance,
		ShrinkThreshold:     c.ShrinkThreshold,
		PasteJumpChars:      c.PasteJumpChars,
		PasteWindow:         c.PasteWindow,
		SpeedFloor:          c.SpeedFloor,
		RaceDurationCap:     c.RaceDurationCap,
		UpdatesPerSecond:    c.UpdatesPerSecond,
		UpdateBurst:         c.UpdateBurst,
	}
}
