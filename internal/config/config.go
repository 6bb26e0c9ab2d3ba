// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds server configuration.
type Config struct {
	DBPath      string // empty means db.DefaultPath()
	Port        int
	DevMode     bool
	CORSOrigins []string
}

// Load reads an optional env file (".env" when none is given) and then
// builds a Config from RF_* environment variables. Variables already set
// in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	port, err := strconv.Atoi(envOrDefault("RF_PORT", "8080"))
	if err != nil {
		return Config{}, fmt.Errorf("parsing RF_PORT: %w", err)
	}

	return Config{
		DBPath:      os.Getenv("RF_DB_PATH"),
		Port:        port,
		DevMode:     os.Getenv("RF_DEV_MODE") == "true",
		CORSOrigins: splitList(envOrDefault("RF_CORS_ORIGINS", "http://localhost:3000")),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
