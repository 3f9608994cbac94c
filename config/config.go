package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken  string // empty runs the local CLI instead of the bot
	DatabasePath  string
	Timezone      string        // IANA name, or "Local"
	SweepSchedule string        // cron spec for the reminder sweep
	SendRate      float64       // outbound messages per second
	SendTimeout   time.Duration // per-message delivery timeout
	MetricsAddr   string        // empty disables /metrics and /healthz
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	return &Config{
		DiscordToken:  os.Getenv("DISCORD_BOT_TOKEN"),
		DatabasePath:  envOr("DATABASE_PATH", "./events.db"),
		Timezone:      envOr("TIMEZONE", "Local"),
		SweepSchedule: envOr("SWEEP_SCHEDULE", "* * * * *"),
		SendRate:      envFloat("SEND_RATE", 5),
		SendTimeout:   envDuration("SEND_TIMEOUT", 10*time.Second),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
	}
}

// Location resolves the configured timezone. Every "today" and "now" in the
// process is computed in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("config: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("config: invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
