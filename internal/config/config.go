package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	Env               string
	DatabaseURL       string
	MaxPlayersPerRoom int
}

// Load reads .env if present, then the environment. Malformed values fall
// back to defaults rather than failing startup.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:              ":8080",
		Env:               "production",
		MaxPlayersPerRoom: 4,
	}
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if v := os.Getenv("MAX_PLAYERS_PER_ROOM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 2 {
			cfg.MaxPlayersPerRoom = n
		}
	}
	return cfg
}
