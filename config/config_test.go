package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadFromParsesProfiles(t *testing.T) {
	path := writeTestConfig(t, `[personal]
api_key = sk-personal-key

[work]
api_key = sk-work-key

[team]
api_key = sk-team-key
`)

	result, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if result.Created {
		t.Error("LoadFrom() Created = true for existing file")
	}

	want := []Profile{
		{Name: "personal", APIKey: "sk-personal-key"},
		{Name: "work", APIKey: "sk-work-key"},
		{Name: "team", APIKey: "sk-team-key"},
	}

	if len(result.Profiles) != len(want) {
		t.Fatalf("LoadFrom() returned %d profiles, want %d", len(result.Profiles), len(want))
	}
	for i, p := range want {
		if result.Profiles[i] != p {
			t.Errorf("Profile[%d] = %+v, want %+v", i, result.Profiles[i], p)
		}
	}
}

func TestLoadFromMissingFileCreatesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batchman", "config.ini")

	result, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if !result.Created {
		t.Error("LoadFrom() Created = false, want true for missing file")
	}

	// Template must contain exactly two placeholder profiles.
	if len(result.Profiles) != 2 {
		t.Fatalf("Template has %d profiles, want 2", len(result.Profiles))
	}
	if result.Profiles[0].Name != "personal" || result.Profiles[1].Name != "work" {
		t.Errorf("Template profiles = %q, %q; want personal, work",
			result.Profiles[0].Name, result.Profiles[1].Name)
	}
	for _, p := range result.Profiles {
		if p.APIKey == "" {
			t.Errorf("Template profile %q has empty api_key placeholder", p.Name)
		}
	}

	// The file must exist on disk so the user can edit it.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Template file was not written: %v", err)
	}

	// A second load must not re-create the template.
	again, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Second LoadFrom() error = %v", err)
	}
	if again.Created {
		t.Error("Second LoadFrom() Created = true, want false")
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := writeTestConfig(t, "[unterminated\napi_key = sk-key\n")

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom() expected error for malformed file, got nil")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("LoadFrom() error type = %T, want *ConfigError", err)
	}
}

func TestLoadFromEmptyKey(t *testing.T) {
	path := writeTestConfig(t, "[personal]\napi_key =\n")

	result, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	// An empty key is not a parse error; it is surfaced later as an
	// auth problem when the profile is selected.
	if len(result.Profiles) != 1 {
		t.Fatalf("LoadFrom() returned %d profiles, want 1", len(result.Profiles))
	}
	if result.Profiles[0].APIKey != "" {
		t.Errorf("APIKey = %q, want empty", result.Profiles[0].APIKey)
	}
}

func TestFind(t *testing.T) {
	result := &Result{
		Path: "/tmp/config.ini",
		Profiles: []Profile{
			{Name: "personal", APIKey: "sk-a"},
			{Name: "work", APIKey: "sk-b"},
		},
	}

	p, err := result.Find("work")
	if err != nil {
		t.Fatalf("Find(work) error = %v", err)
	}
	if p.APIKey != "sk-b" {
		t.Errorf("Find(work) APIKey = %q, want sk-b", p.APIKey)
	}

	if _, err := result.Find("missing"); err == nil {
		t.Error("Find(missing) expected error, got nil")
	}
}
