package internal

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var (
	// DefaultConfigPath is the default path to the config file
	DefaultAppName        = "projfind"
	DefaultAppCMDShortCut = "pj"
	DefaultConfigPath     = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultConfigFile     = filepath.Join(DefaultConfigPath, "config.yaml")

	// Default search settings
	DefaultBackend        = "queue"
	DefaultMaxDepth       = -1 // unlimited
	DefaultFollowSymlinks = true
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return os.TempDir()
		}
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
