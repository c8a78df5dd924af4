package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"voiceroll/internal/extract"
)

func TestDefaultsWithoutFile(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "config.json"))

	if c.Language() != extract.English {
		t.Fatalf("language %q", c.Language())
	}
	if c.Duration() != DefaultDuration {
		t.Fatalf("duration %v", c.Duration())
	}
	if c.ModelID(extract.English) != "vosk-en-us-small" || c.ModelID(extract.Chinese) != "vosk-cn-small" {
		t.Fatalf("models %q %q", c.ModelID(extract.English), c.ModelID(extract.Chinese))
	}
	if c.AudioDir() != "" {
		t.Fatalf("audio archive must be off by default")
	}
	if got := c.Hotkey().String(); got != "ctrl+shift+l" {
		t.Fatalf("hotkey %q", got)
	}
	if c.UILanguage() != "en" {
		t.Fatalf("ui language %q", c.UILanguage())
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv(EnvCSVPath, "")
	path := filepath.Join(t.TempDir(), "config.json")

	c := Load(path)
	c.SetLanguage(extract.Chinese)
	c.SetDuration(8 * time.Second)
	c.SetCSVPath("people.csv")
	c.SetModelID(extract.English, "vosk-en-us")
	c.SetNotifications(false)

	r := Load(path)
	if r.Language() != extract.Chinese {
		t.Fatalf("language %q", r.Language())
	}
	if r.Duration() != 8*time.Second {
		t.Fatalf("duration %v", r.Duration())
	}
	if r.CSVPath() != "people.csv" {
		t.Fatalf("csv %q", r.CSVPath())
	}
	if r.ModelID(extract.English) != "vosk-en-us" {
		t.Fatalf("model %q", r.ModelID(extract.English))
	}
	if r.ModelID(extract.Chinese) != "vosk-cn-small" {
		t.Fatalf("chinese model must keep default, got %q", r.ModelID(extract.Chinese))
	}
	if r.NotificationsEnabled() {
		t.Fatal("notifications must stay disabled")
	}
}

func TestLoadIgnoresBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if c := Load(path); c.Language() != extract.English {
		t.Fatalf("language %q", c.Language())
	}
}

func TestFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	c := Load(path)
	c.SetLanguage(extract.Chinese)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["language"] != "Chinese" {
		t.Fatalf("language field %v", raw["language"])
	}
	if raw["duration_seconds"] != float64(5) {
		t.Fatalf("duration field %v", raw["duration_seconds"])
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvModelEnglish, "/models/en")
	t.Setenv(EnvModelChinese, "")
	t.Setenv(EnvCSVPath, "/tmp/override.csv")

	c := Load("")
	if got := c.ModelPathOverride(extract.English); got != "/models/en" {
		t.Fatalf("english override %q", got)
	}
	if got := c.ModelPathOverride(extract.Chinese); got != "" {
		t.Fatalf("chinese override %q", got)
	}
	if got := c.CSVPath(); got != "/tmp/override.csv" {
		t.Fatalf("csv override %q", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv(EnvModelChinese, "")
	os.Unsetenv(EnvModelChinese)

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte(EnvModelChinese+"=/models/cn\n"), 0644); err != nil {
		t.Fatal(err)
	}

	env := LoadEnv(envFile)
	if got := env.ModelPaths[extract.Chinese]; got != "/models/cn" {
		t.Fatalf("chinese path %q", got)
	}
}

func TestSetDurationIgnoresNonPositive(t *testing.T) {
	c := Load("")
	c.SetDuration(0)
	if c.Duration() != DefaultDuration {
		t.Fatalf("duration %v", c.Duration())
	}
}
