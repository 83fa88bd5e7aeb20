package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN                string
	SlackBotToken        string
	LineupChannel        string
	Environment          string
	DirectoryRefreshSpec string
}

// Load reads configuration from a .env file if present, then from the
// environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:                os.Getenv("DB_DSN"),
		SlackBotToken:        os.Getenv("SLACK_BOT_TOKEN"),
		LineupChannel:        os.Getenv("LINEUP_CHANNEL"),
		Environment:          os.Getenv("ENV"),
		DirectoryRefreshSpec: os.Getenv("DIRECTORY_REFRESH"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.DirectoryRefreshSpec == "" {
		cfg.DirectoryRefreshSpec = "@every 1h"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.SlackBotToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN is required but not set")
	}
	if cfg.LineupChannel == "" {
		return nil, fmt.Errorf("LINEUP_CHANNEL is required but not set")
	}

	return cfg, nil
}
