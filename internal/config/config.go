package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings
type Config struct {
	// Server
	Port string

	// Storage
	StorageType string // "memory" or "redis"
	RedisURL    string

	// Security
	AgentSecret string // global join secret for automated participants
	AdminSecret string // shared secret for provider registration calls

	// Game settings
	VoteTime          time.Duration
	GraceWindow       time.Duration
	PinnedMode        string        // force every session into one mode; empty = random
	RoundTimeOverride time.Duration // override mode round durations; 0 = per-mode defaults

	// Webhook notifier
	NotifyInterval time.Duration
	NotifyCooldown time.Duration
}

// Load reads configuration from the environment, loading .env if present
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		StorageType: getEnv("STORAGE_TYPE", "memory"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		AgentSecret: getEnv("AGENT_SECRET", ""),
		AdminSecret: getEnv("ADMIN_SECRET", ""),

		VoteTime:          getEnvSeconds("VOTE_TIME_SECONDS", 15),
		GraceWindow:       getEnvSeconds("GRACE_WINDOW_SECONDS", 30),
		PinnedMode:        getEnv("PINNED_MODE", ""),
		RoundTimeOverride: getEnvSeconds("ROUND_TIME_SECONDS", 0),

		NotifyInterval: getEnvSeconds("NOTIFY_INTERVAL_SECONDS", 15),
		NotifyCooldown: getEnvSeconds("NOTIFY_COOLDOWN_SECONDS", 120),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(fallback) * time.Second
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(n) * time.Second
}
