package app

import (
	"log/slog"

	"github.com/Zephyruston/whisper-im/config"
	"github.com/Zephyruston/whisper-im/internal/types"
)

// ─────────────────────────────────────────────────────────────────────────────
// Settings
// ─────────────────────────────────────────────────────────────────────────────

// Settings returns the current configuration and the dropdown options
// for the settings dialog.
func (s *Service) Settings() types.SettingsBundle {
	s.mu.Lock()
	cfg := *s.cfg
	s.mu.Unlock()

	return types.SettingsBundle{
		Form:      formFromConfig(&cfg),
		Backends:  config.BackendOptions(),
		Models:    config.ModelOptions(cfg.Backend),
		Languages: config.LanguageOptions(),
		Threads:   config.ThreadOptions(),
		Providers: config.ProviderOptions(),
		Recorders: config.RecorderOptions(),
	}
}

// SaveSettings sanitizes and persists the settings form. A session
// already in flight keeps the configuration it started with.
func (s *Service) SaveSettings(form types.SettingsForm) error {
	cfg := configFromForm(form)
	cfg.Sanitize()
	if err := cfg.Save(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	// The gohook listener cannot be rebound at runtime, so hotkey
	// changes apply on the next start.
	slog.Info("settings saved", "provider", cfg.Provider, "backend", cfg.Backend,
		"model", cfg.Model, "language", cfg.Language)
	return nil
}

func formFromConfig(cfg *config.Config) types.SettingsForm {
	return types.SettingsForm{
		Backend:      cfg.Backend,
		ModelsDir:    cfg.ModelsDir,
		Model:        cfg.Model,
		Language:     cfg.Language,
		Threads:      cfg.Threads,
		Provider:     cfg.Provider,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		OpenAIModel:  cfg.OpenAIModel,
		Recorder:     cfg.Recorder,
		GlobalHotkey: cfg.GlobalHotkey,
		Hotkey:       cfg.Hotkey,
	}
}

func configFromForm(form types.SettingsForm) *config.Config {
	return &config.Config{
		Backend:      form.Backend,
		ModelsDir:    form.ModelsDir,
		Model:        form.Model,
		Language:     form.Language,
		Threads:      form.Threads,
		Provider:     form.Provider,
		OpenAIAPIKey: form.OpenAIAPIKey,
		OpenAIModel:  form.OpenAIModel,
		Recorder:     form.Recorder,
		GlobalHotkey: form.GlobalHotkey,
		Hotkey:       form.Hotkey,
	}
}
