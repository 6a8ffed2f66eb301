package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"vinylvault/internal/config"
)

const defaultMigrationsDir = "db/migrations"

// settings is the slice of configuration the migrator needs. It skips
// config.Load so that migrations run without a JWT secret.
type settings struct {
	Dir         string
	DatabaseURL string
	LogLevel    string
	LogFormat   string
}

// loadSettings resolves each key from the process environment first, then
// from the env files in order, then from defaults.
func loadSettings(lookup func(string) (string, bool), envFiles ...string) (settings, error) {
	fileVals := map[string]string{}
	for i := len(envFiles) - 1; i >= 0; i-- {
		vals, err := godotenv.Read(envFiles[i])
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return settings{}, fmt.Errorf("read %s: %w", envFiles[i], err)
		}
		for k, v := range vals {
			fileVals[k] = v
		}
	}
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		if v := fileVals[key]; v != "" {
			return v
		}
		return def
	}
	return settings{
		Dir:         get("MIGRATIONS_DIR", defaultMigrationsDir),
		DatabaseURL: get("DATABASE_URL", config.DefaultDatabaseURL),
		LogLevel:    get("LOG_LEVEL", "info"),
		LogFormat:   get("LOG_FORMAT", "text"),
	}, nil
}

func loadSettingsFromEnv() (settings, error) {
	return loadSettings(os.LookupEnv, ".env.local", ".env")
}
