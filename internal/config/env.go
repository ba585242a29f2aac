package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/melih/graphbot/internal/logger"
)

const (
	EnvDataPath   = "DATA_PATH"
	EnvOutputPath = "OUTPUT_PATH"
	EnvDebug      = "GRAPHBOT_DEBUG"
)

// LoadEnv loads the .env file of dir into the environment, if any.
// Variables already set win.
func LoadEnv(dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("No .env file found, using system environment variables", "dir", dir)
		return nil
	}
	return err
}

// GetEnvString returns the value of key, or defaultValue when unset.
func GetEnvString(key string, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	return value
}

// GetEnvBool parses key as a boolean, or returns defaultValue.
func GetEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// DataPath returns the directory holding the configuration.
func DataPath() string {
	return GetEnvString(EnvDataPath, ".")
}
