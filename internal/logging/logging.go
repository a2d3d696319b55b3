// Package logging configures the application-wide logger.
//
// The TUI owns the terminal while running, so log output goes to a file
// next to the config instead of stderr.
package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger. With debug disabled all logging is
// turned off; otherwise debug-level events are appended to debug.log in
// the config directory.
func Init(debug bool) error {
	if !debug && os.Getenv("BATCHMAN_DEBUG") == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	dir := filepath.Join(homeDir, ".config", "batchman")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return nil
}
