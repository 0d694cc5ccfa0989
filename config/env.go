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

// Environment variables read by LoadEnv.
const (
	EnvLogLevel = "OVERLAYNET_LOG_LEVEL"
	EnvLogDev   = "OVERLAYNET_LOG_DEV"
	EnvRecordDB = "OVERLAYNET_RECORD_DB"
)

// Env holds the settings taken from the environment.
type Env struct {
	LogLevel    string
	Development bool

	// RecordDB names the SQLite recording, without extension. Empty disables
	// recording.
	RecordDB string
}

// LoadEnv loads the given dotenv files, if they exist, then reads the
// settings. Variables already set in the environment win over the files.
// Without arguments, .env in the working directory is tried.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	env := Env{
		LogLevel: strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))),
		RecordDB: strings.TrimSpace(os.Getenv(EnvRecordDB)),
	}

	if env.LogLevel == "" {
		env.LogLevel = "info"
	}

	if raw := strings.TrimSpace(os.Getenv(EnvLogDev)); raw != "" {
		dev, err := strconv.ParseBool(raw)
		if err != nil {
			return Env{}, fmt.Errorf("%s: %w", EnvLogDev, err)
		}

		env.Development = dev
	}

	return env, nil
}
