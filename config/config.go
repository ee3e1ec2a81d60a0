// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cast"
)

const (
	appName        = "whisper-im"
	configFileName = "config.json"
)

// Backend values.
const (
	BackendDefault  = "default"
	BackendOpenVINO = "openvino"
)

// Provider values.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// Recorder values.
const (
	RecorderArecord  = "arecord"
	RecorderPwRecord = "pw-record"
)

// Allowed values for the enumerated fields.
var (
	Backends  = []string{BackendDefault, BackendOpenVINO}
	Models    = []string{"tiny", "base", "small", "medium", "large"}
	Languages = []string{"auto", "zh", "en", "ja", "ko"}
	Threads   = []int{1, 2, 4, 8, 16}
	Providers = []string{ProviderLocal, ProviderOpenAI}
	Recorders = []string{RecorderArecord, RecorderPwRecord}
)

// Config represents the persisted application settings.
type Config struct {
	Backend   string `json:"backend"`
	ModelsDir string `json:"models_dir"`
	Model     string `json:"model"`
	Language  string `json:"language"`
	Threads   int    `json:"threads"`

	Provider     string `json:"provider"`
	OpenAIAPIKey string `json:"openai_api_key"`
	OpenAIModel  string `json:"openai_model"`

	Recorder     string `json:"recorder"`
	GlobalHotkey bool   `json:"global_hotkey"`
	Hotkey       string `json:"hotkey"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend:     BackendDefault,
		ModelsDir:   filepath.Join("whisper.cpp", "models"),
		Model:       "base",
		Language:    "zh",
		Threads:     4,
		Provider:    ProviderLocal,
		OpenAIModel: "whisper-1",
		Recorder:    RecorderArecord,
		Hotkey:      "ctrl+shift+r",
	}
}

// Load reads the configuration file and merges it over the defaults.
// A missing or unreadable file, malformed JSON, and out-of-range values
// all degrade to the defaults; the returned Config is always usable.
// The error only reports an unlocatable user config directory.
func Load() (*Config, error) {
	cfg := Default()

	path, err := configPath()
	if err != nil {
		return cfg, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("read config", "path", path, "error", err)
		}
		return cfg, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("parse config, using defaults", "path", path, "error", err)
		return cfg, nil
	}

	cfg.merge(raw)
	cfg.Sanitize()
	return cfg, nil
}

// merge copies known keys from a decoded JSON document onto the config.
// Values are coerced, not trusted: older releases stored numbers as
// strings, so "threads": "4" must load as 4.
func (c *Config) merge(raw map[string]any) {
	if v, ok := raw["backend"]; ok {
		c.Backend = cast.ToString(v)
	}
	if v, ok := raw["models_dir"]; ok {
		c.ModelsDir = cast.ToString(v)
	}
	if v, ok := raw["model"]; ok {
		c.Model = cast.ToString(v)
	}
	if v, ok := raw["language"]; ok {
		c.Language = cast.ToString(v)
	}
	if v, ok := raw["threads"]; ok {
		c.Threads = cast.ToInt(v)
	}
	if v, ok := raw["provider"]; ok {
		c.Provider = cast.ToString(v)
	}
	if v, ok := raw["openai_api_key"]; ok {
		c.OpenAIAPIKey = cast.ToString(v)
	}
	if v, ok := raw["openai_model"]; ok {
		c.OpenAIModel = cast.ToString(v)
	}
	if v, ok := raw["recorder"]; ok {
		c.Recorder = cast.ToString(v)
	}
	if v, ok := raw["global_hotkey"]; ok {
		c.GlobalHotkey = cast.ToBool(v)
	}
	if v, ok := raw["hotkey"]; ok {
		c.Hotkey = cast.ToString(v)
	}
}

// Sanitize clamps every field to its allowed set, falling back to the
// default for anything out of range. OpenVINO has no published encoder
// for the large model, so that combination falls back to base.
func (c *Config) Sanitize() {
	def := Default()
	if !slices.Contains(Backends, c.Backend) {
		c.Backend = def.Backend
	}
	if c.ModelsDir == "" {
		c.ModelsDir = def.ModelsDir
	}
	if !slices.Contains(ModelsFor(c.Backend), c.Model) {
		c.Model = def.Model
	}
	if !slices.Contains(Languages, c.Language) {
		c.Language = def.Language
	}
	if !slices.Contains(Threads, c.Threads) {
		c.Threads = def.Threads
	}
	if !slices.Contains(Providers, c.Provider) {
		c.Provider = def.Provider
	}
	if c.OpenAIModel == "" {
		c.OpenAIModel = def.OpenAIModel
	}
	if !slices.Contains(Recorders, c.Recorder) {
		c.Recorder = def.Recorder
	}
	if c.Hotkey == "" {
		c.Hotkey = def.Hotkey
	}
}

// Save persists the configuration to disk. The file is written next to
// its final location and renamed into place so a crash mid-write never
// leaves a truncated config behind.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, configFileName), nil
}
