package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// useTempConfigDir points os.UserConfigDir at a fresh directory.
func useTempConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfigFile(t *testing.T, configHome, content string) {
	t.Helper()
	dir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	useTempConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := Default()
	if *cfg != *def {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadDegradedInputs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "empty file",
			content: "",
			check: func(t *testing.T, cfg *Config) {
				if *cfg != *Default() {
					t.Errorf("got %+v, want defaults", cfg)
				}
			},
		},
		{
			name:    "malformed json",
			content: "{not json",
			check: func(t *testing.T, cfg *Config) {
				if *cfg != *Default() {
					t.Errorf("got %+v, want defaults", cfg)
				}
			},
		},
		{
			name:    "unknown keys ignored",
			content: `{"model": "small", "mystery": 42}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Model != "small" {
					t.Errorf("Model = %q, want %q", cfg.Model, "small")
				}
			},
		},
		{
			name:    "legacy string threads",
			content: `{"threads": "8"}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Threads != 8 {
					t.Errorf("Threads = %d, want 8", cfg.Threads)
				}
			},
		},
		{
			name:    "invalid threads falls back",
			content: `{"threads": 7}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Threads != 4 {
					t.Errorf("Threads = %d, want default 4", cfg.Threads)
				}
			},
		},
		{
			name:    "invalid language falls back",
			content: `{"language": "fr", "model": "tiny"}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Language != "zh" {
					t.Errorf("Language = %q, want default %q", cfg.Language, "zh")
				}
				if cfg.Model != "tiny" {
					t.Errorf("Model = %q, want %q (valid fields must survive)", cfg.Model, "tiny")
				}
			},
		},
		{
			name:    "openvino with large model falls back to base",
			content: `{"backend": "openvino", "model": "large"}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Backend != BackendOpenVINO {
					t.Errorf("Backend = %q, want %q", cfg.Backend, BackendOpenVINO)
				}
				if cfg.Model != "base" {
					t.Errorf("Model = %q, want %q", cfg.Model, "base")
				}
			},
		},
		{
			name:    "wrong value types coerced or defaulted",
			content: `{"backend": 3, "global_hotkey": "true"}`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Backend != BackendDefault {
					t.Errorf("Backend = %q, want default", cfg.Backend)
				}
				if !cfg.GlobalHotkey {
					t.Error("GlobalHotkey = false, want true")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := useTempConfigDir(t)
			writeConfigFile(t, home, tt.content)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	useTempConfigDir(t)

	want := &Config{
		Backend:      BackendOpenVINO,
		ModelsDir:    "/opt/whisper/models",
		Model:        "small",
		Language:     "auto",
		Threads:      8,
		Provider:     ProviderOpenAI,
		OpenAIAPIKey: "sk-test",
		OpenAIModel:  "whisper-1",
		Recorder:     RecorderPwRecord,
		GlobalHotkey: true,
		Hotkey:       "ctrl+alt+space",
	}
	if err := want.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *got != *want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	home := useTempConfigDir(t)

	if err := Default().Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(home, appName))
	if err != nil {
		t.Fatalf("read config dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != configFileName {
			t.Errorf("unexpected file in config dir: %s", e.Name())
		}
	}
}

func TestSaveWritesSnakeCaseKeys(t *testing.T) {
	home := useTempConfigDir(t)

	if err := Default().Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(home, appName, configFileName))
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved config is not valid JSON: %v", err)
	}
	for _, key := range []string{"backend", "models_dir", "model", "language", "threads"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("saved config missing key %q", key)
		}
	}
}

func TestModelsFor(t *testing.T) {
	if got := ModelsFor(BackendDefault); !slices.Contains(got, "large") {
		t.Errorf("ModelsFor(default) = %v, want large included", got)
	}
	if got := ModelsFor(BackendOpenVINO); slices.Contains(got, "large") {
		t.Errorf("ModelsFor(openvino) = %v, want large excluded", got)
	}
}

func TestLanguageOptions(t *testing.T) {
	opts := LanguageOptions()
	if len(opts) != len(Languages) {
		t.Fatalf("got %d options, want %d", len(opts), len(Languages))
	}
	if opts[0].Value != "auto" || opts[0].Label != "Auto detect" {
		t.Errorf("first option = %+v, want auto/Auto detect", opts[0])
	}
	for _, opt := range opts[1:] {
		if opt.Label == "" || opt.Label == opt.Value {
			t.Errorf("option %q has no display label: %q", opt.Value, opt.Label)
		}
	}
}
