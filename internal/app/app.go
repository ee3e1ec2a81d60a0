// Package app provides the core application service for Wails bindings.
package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/Zephyruston/whisper-im/clipboard"
	"github.com/Zephyruston/whisper-im/config"
	"github.com/Zephyruston/whisper-im/hotkey"
	"github.com/Zephyruston/whisper-im/internal/types"
	"github.com/Zephyruston/whisper-im/recorder"
	"github.com/Zephyruston/whisper-im/textnorm"
	"github.com/Zephyruston/whisper-im/transcriber"

	"github.com/wailsapp/wails/v3/pkg/application"
)

// Service provides application functionality bound to Wails.
// This struct focuses on orchestration; business logic lives in sub-components.
type Service struct {
	mu      sync.Mutex
	state   types.State
	session *session
	cfg     *config.Config

	// Last finished transcript, kept for the manual copy button.
	transcript string

	// UI references - set via Init
	app    *application.App
	window application.Window
	hk     *hotkey.Listener

	// Collaborators, replaceable in tests.
	newRecorder    func(*config.Config) recorder.Recorder
	newTranscriber func(*config.Config) (transcriber.Transcriber, error)
	normalize      func(text, language string) (string, error)
	writeClipboard func(text string) error
	onEvent        func(name string, data any)
	quit           func()

	// Version info (set by caller)
	version string
}

// New creates a new Service. Call Init() after Wails app is created.
func New(version string) *Service {
	return &Service{
		state:          types.StateIdle,
		cfg:            config.Default(),
		version:        version,
		newRecorder:    recorder.New,
		newTranscriber: transcriber.New,
		normalize:      func(text, _ string) (string, error) { return text, nil },
		writeClipboard: func(text string) error {
			return clipboard.Write(context.Background(), text)
		},
		onEvent:        func(string, any) {},
		quit:           func() {},
	}
}

// GetVersion returns the application version.
func (s *Service) GetVersion() string {
	return s.version
}

// State returns the current session state.
func (s *Service) State() types.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Init initializes the service with app and window references.
// Must be called after Wails application is created.
func (s *Service) Init(app *application.App, window application.Window) {
	s.app = app
	s.window = window
	s.onEvent = func(name string, data any) { app.Event.Emit(name, data) }
	s.quit = app.Quit

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		cfg = config.Default()
	}
	s.cfg = cfg

	// Write the sanitized form back, creating the file on first run and
	// upgrading configs from older releases in one step.
	if err := cfg.Save(); err != nil {
		slog.Warn("persist config", "error", err)
	}

	// Initialize the Traditional to Simplified converter. The
	// dictionaries are embedded, so a failure means a broken build;
	// transcripts then pass through unconverted.
	norm, err := textnorm.New()
	if err != nil {
		slog.Error("init text normalizer", "error", err)
	} else {
		s.normalize = norm.Normalize
	}

	// Remove recordings orphaned by an earlier crash.
	recorder.CleanupStale()

	s.subscribe()
	s.setupHotkey()

	slog.Info("service initialized", "version", s.version, "provider", cfg.Provider, "model", cfg.Model)
}

// Shutdown cleans up resources.
func (s *Service) Shutdown() {
	if s.hk != nil {
		s.hk.Stop()
	}

	s.mu.Lock()
	sess := s.session
	s.session = nil
	s.mu.Unlock()

	if sess != nil {
		sess.rec.Abort()
	}
}

func (s *Service) setupHotkey() {
	if !s.cfg.GlobalHotkey {
		return
	}

	s.hk = hotkey.New(s.cfg.Hotkey)
	go s.hk.Start()
	go func() {
		for range s.hk.Presses() {
			s.ToggleRecording()
		}
	}()

	slog.Info("global hotkey enabled", "combo", s.cfg.Hotkey)
}

// ─────────────────────────────────────────────────────────────────────────────
// Frontend Events
// ─────────────────────────────────────────────────────────────────────────────

// subscribe registers handlers for events the frontend emits.
func (s *Service) subscribe() {
	s.app.Event.On(EventUIReady, func(*application.CustomEvent) {
		s.setStatus(types.StateIdle, "Ready, press START or SPACE to record", toneInfo)
		s.emit(EventSettings, s.Settings())
	})

	s.app.Event.On(EventUIToggle, func(*application.CustomEvent) {
		s.ToggleRecording()
	})

	s.app.Event.On(EventUILoadSettings, func(*application.CustomEvent) {
		s.emit(EventSettings, s.Settings())
	})

	s.app.Event.On(EventUISaveSettings, func(e *application.CustomEvent) {
		var form types.SettingsForm
		if err := decodeEvent(e.Data, &form); err != nil {
			slog.Error("decode settings form", "error", err)
			s.note("Invalid settings, nothing saved", toneError)
			return
		}
		if err := s.SaveSettings(form); err != nil {
			slog.Error("save settings", "error", err)
			s.note("Failed to save settings: "+err.Error(), toneError)
			return
		}
		s.emit(EventSettingsSaved, s.Settings())
		s.note("Settings saved", toneOK)
	})

	s.app.Event.On(EventUICopy, func(*application.CustomEvent) {
		if err := s.CopyTranscript(); err != nil {
			s.note("Copy failed: "+err.Error(), toneError)
		}
	})
}

// decodeEvent converts a loosely typed event payload into dst. The JS
// runtime wraps emitted arguments in an array, so a single payload is
// unwrapped first.
func decodeEvent(data any, dst any) error {
	if arr, ok := data.([]any); ok && len(arr) == 1 {
		data = arr[0]
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// emit is a safe wrapper around app.Event.Emit
func (s *Service) emit(name string, data any) {
	s.onEvent(name, data)
}

// setStatus records the new state and reports it to the frontend.
func (s *Service) setStatus(state types.State, msg, tone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushStatus(state, msg, tone)
}

// pushStatus is setStatus for callers that already hold mu.
func (s *Service) pushStatus(state types.State, msg, tone string) {
	s.state = state
	s.emit(EventState, types.Status{State: state, Message: msg, Tone: tone})
}

// note emits a status message without changing the session state.
func (s *Service) note(msg, tone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit(EventState, types.Status{State: s.state, Message: msg, Tone: tone})
}
