package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration shared by the controller and agent binaries.
type Config struct {
	Env    string
	BusURL string
	Topic  string

	// ResponseWait is the default wait window after issuing a command.
	ResponseWait time.Duration

	// ExecTimeout bounds external command execution on the agent.
	ExecTimeout time.Duration

	// ArtifactDir is where fetched file bodies are written.
	ArtifactDir string

	// LogFile, when set, redirects agent logging to a rotating file so the
	// daemon leaves nothing on stdout.
	LogFile string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	return &Config{
		Env:          getEnv("ENV", "development"),
		BusURL:       getEnv("BUS_URL", "redis://localhost:6379"),
		Topic:        getEnv("TOPIC", "sensors"),
		ResponseWait: getSeconds("RESPONSE_WAIT_SEC", 5),
		ExecTimeout:  getSeconds("EXEC_TIMEOUT_SEC", 5),
		ArtifactDir:  getEnv("ARTIFACT_DIR", "."),
		LogFile:      os.Getenv("LOG_FILE"),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getSeconds(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
