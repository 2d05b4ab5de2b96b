package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/subosito/gotenv"
	"go-simpler.org/env"
)

type Settings struct {
	AppEnv          string        `env:"APP_ENV" default:"dev"`
	Port            string        `env:"PORT" default:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" default:"info"`
	DataDir         string        `env:"DATA_DIR" default:"./data"`
	PunktLanguage   string        `env:"PUNKT_LANGUAGE" default:"english"`
	PunktBaseURL    string        `env:"PUNKT_BASE_URL" default:"https://raw.githubusercontent.com/neurosnap/sentences/master/data"`
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" default:"60s"`
	MaxTextBytes    int64         `env:"MAX_TEXT_BYTES" default:"100000"`
	StripMarkdown   bool          `env:"STRIP_MARKDOWN" default:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}

func Load() (*Settings, error) {
	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func validate(s *Settings) error {
	if s.Port == "" {
		return errors.New("PORT is required")
	}
	if s.PunktLanguage == "" {
		return errors.New("PUNKT_LANGUAGE is required")
	}
	if s.MaxTextBytes <= 0 {
		return fmt.Errorf("MAX_TEXT_BYTES must be positive, got %d", s.MaxTextBytes)
	}
	return nil
}
