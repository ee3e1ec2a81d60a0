// Package types provides shared type definitions for the application.
package types

// State identifies where the recording session currently is.
type State string

const (
	// StateIdle means no session is active and the toggle starts a recording.
	StateIdle State = "idle"
	// StateRecording means the capture process is running.
	StateRecording State = "recording"
	// StateTranscribing means the recording stopped and transcription is in flight.
	StateTranscribing State = "transcribing"
)

// Status is pushed to the frontend whenever the session state changes.
type Status struct {
	State   State  `json:"state"`
	Message string `json:"message"`
	Tone    string `json:"tone"` // "info", "busy", "ok", "warn", "error"
}

// Transcript carries the final text of a session to the frontend.
type Transcript struct {
	Text      string `json:"text"`
	Copied    bool   `json:"copied"`    // true once the text reached the clipboard
	DurationS int64  `json:"durationS"` // recorded audio length in whole seconds
}

// Option is a value/label pair for a settings dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SettingsForm mirrors the persisted configuration for the settings dialog.
type SettingsForm struct {
	Backend      string `json:"backend"`
	ModelsDir    string `json:"models_dir"`
	Model        string `json:"model"`
	Language     string `json:"language"`
	Threads      int    `json:"threads"`
	Provider     string `json:"provider"`
	OpenAIAPIKey string `json:"openai_api_key"`
	OpenAIModel  string `json:"openai_model"`
	Recorder     string `json:"recorder"`
	GlobalHotkey bool   `json:"global_hotkey"`
	Hotkey       string `json:"hotkey"`
}

// SettingsBundle is the settings form plus every dropdown enumeration,
// so the frontend never hardcodes option lists.
type SettingsBundle struct {
	Form      SettingsForm `json:"form"`
	Backends  []Option     `json:"backends"`
	Models    []Option     `json:"models"`
	Languages []Option     `json:"languages"`
	Threads   []int        `json:"threads"`
	Providers []Option     `json:"providers"`
	Recorders []Option     `json:"recorders"`
}
