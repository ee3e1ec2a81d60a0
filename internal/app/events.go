// Package app provides the core application service for Wails bindings.
package app

// Event names for frontend communication.
const (
	// Emitted to the frontend.
	EventState         = "state"
	EventTranscript    = "transcript"
	EventSettings      = "settings"
	EventSettingsSaved = "settings-saved"

	// Received from the frontend.
	EventUIReady        = "ui:ready"
	EventUIToggle       = "ui:toggle-record"
	EventUILoadSettings = "ui:load-settings"
	EventUISaveSettings = "ui:save-settings"
	EventUICopy         = "ui:copy"
)

// Status tones the frontend maps to colors.
const (
	toneInfo  = "info"
	toneBusy  = "busy"
	toneOK    = "ok"
	toneWarn  = "warn"
	toneError = "error"
)
