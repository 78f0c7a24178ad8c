// Package config loads tool defaults from the environment. Command-line
// flags take precedence; the environment covers settings that rarely change
// per invocation, such as where ffmpeg lives.
package config

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds environment-provided defaults for the batch tool.
type Config struct {
	FFmpegBin string `env:"RADIOIFY_FFMPEG, default=ffmpeg"`
	OutputDir string `env:"RADIOIFY_OUTPUT_DIR, default=output"`
	Jobs      int    `env:"RADIOIFY_JOBS, default=1"`
}

// LoadEnv loads a .env file from the working directory if one exists.
// A missing file is reported via os.IsNotExist so callers can ignore it.
func LoadEnv() error {
	return godotenv.Load()
}

// FromEnv builds a Config from the process environment.
func FromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
