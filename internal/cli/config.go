package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is everything the CLI reads from the environment. A .env file in the
// working directory is loaded first, so local setups need no exported vars.
type Config struct {
	// APIURL is the backend root including the /api prefix.
	APIURL string
	// StateDir holds the durable client state database.
	StateDir string
	// CallbackAddr is where the Google sign-in listener binds.
	CallbackAddr string
	// LogLevel is debug, info, warn or error.
	LogLevel slog.Level
}

// LoadConfig reads configuration with sensible defaults for a local backend.
func LoadConfig() Config {
	_ = godotenv.Load() // missing .env is fine

	cfg := Config{
		APIURL:       "http://localhost:8000/api",
		CallbackAddr: "127.0.0.1:8765",
		LogLevel:     slog.LevelWarn,
	}

	if v := os.Getenv("MENTRA_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("MENTRA_STATE_DIR"); v != "" {
		cfg.StateDir = v
	} else if home, err := os.UserHomeDir(); err == nil {
		cfg.StateDir = filepath.Join(home, ".mentra")
	} else {
		cfg.StateDir = ".mentra"
	}
	if v := os.Getenv("MENTRA_CALLBACK_ADDR"); v != "" {
		cfg.CallbackAddr = v
	}
	switch os.Getenv("MENTRA_LOG_LEVEL") {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "error":
		cfg.LogLevel = slog.LevelError
	}

	return cfg
}

// StatePath is the SQLite file inside StateDir.
func (c Config) StatePath() string {
	return filepath.Join(c.StateDir, "state.db")
}
