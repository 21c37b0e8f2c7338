package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are loaded in order. Earlier files win because loading never
// overrides a variable that is already set.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, path := range envFiles {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Failed to load env file", slog.String("file", path), slog.Any("error", err))
			continue
		}
		slog.Debug("Loaded environment variables", slog.String("file", path))
	}
}
