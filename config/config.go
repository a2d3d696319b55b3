// Package config loads API key profiles from the user's config file.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Profile is a named API credential loaded from the config file.
type Profile struct {
	Name   string
	APIKey string
}

// ConfigError indicates the config file could not be parsed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config file %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Result is the outcome of loading the config file.
type Result struct {
	Profiles []Profile
	Path     string
	Created  bool // true when a template config was written on this run
}

// Path returns the per-user config file location.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "batchman", "config.ini"), nil
}

// Load reads profiles from the default config location, creating a
// template file with placeholder profiles on first run.
func Load() (*Result, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads profiles from the given path. A missing file is replaced
// by a template with two placeholder profiles; a malformed file is a
// *ConfigError.
func LoadFrom(path string) (*Result, error) {
	created := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeTemplate(path); err != nil {
			return nil, err
		}
		created = true
	}

	data, err := readLocked(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	profiles := make([]Profile, 0, len(cfg.Sections()))
	for _, sec := range cfg.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		profiles = append(profiles, Profile{
			Name:   sec.Name(),
			APIKey: sec.Key("api_key").String(),
		})
	}

	return &Result{Profiles: profiles, Path: path, Created: created}, nil
}

// Find returns the profile with the given name from a loaded result.
func (r *Result) Find(name string) (Profile, error) {
	for _, p := range r.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile '%s' not found in %s", name, r.Path)
}

// writeTemplate writes a starter config with two placeholder profiles.
func writeTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	cfg := ini.Empty()
	for _, name := range []string{"personal", "work"} {
		sec, err := cfg.NewSection(name)
		if err != nil {
			return err
		}
		if _, err := sec.NewKey("api_key", "sk-your-key-here"); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	buf.WriteString("; batchman profiles\n")
	buf.WriteString("; each section is a profile name; set api_key to an OpenAI API key\n\n")
	if _, err := cfg.WriteTo(&buf); err != nil {
		return err
	}

	return writeLocked(path, buf.Bytes())
}

// readLocked reads the file under a shared lock.
func readLocked(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := lockFileShared(f); err != nil {
		return nil, err
	}
	defer unlockFile(f)

	return io.ReadAll(f)
}

// writeLocked writes the file under an exclusive lock.
func writeLocked(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := lockFileExclusive(f); err != nil {
		return err
	}
	defer unlockFile(f)

	_, err = f.Write(data)
	return err
}
