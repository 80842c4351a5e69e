package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config is the process configuration, read once at startup from the
// environment (a .env file is honored when present).
type Config struct {
	Addr        string
	DatabaseURL string

	LobbySeconds int
	TurnSeconds  int
	GraceDelay   time.Duration
	DoneDelay    time.Duration

	RoomTTL         time.Duration
	CleanupInterval time.Duration
}

func Load(log *zap.Logger) Config {
	if err := godotenv.Load(); err == nil {
		log.Info("loaded .env")
	}
	return Config{
		Addr:            getenv("ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		LobbySeconds:    getenvInt("LOBBY_TIME", 20),
		TurnSeconds:     getenvInt("START_TIME", 30),
		GraceDelay:      getenvDuration("GRACE_DELAY", 2*time.Second),
		DoneDelay:       getenvDuration("DONE_DELAY", 2*time.Second),
		RoomTTL:         getenvDuration("ROOM_TTL", 24*time.Hour),
		CleanupInterval: getenvDuration("CLEANUP_INTERVAL", time.Hour),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
