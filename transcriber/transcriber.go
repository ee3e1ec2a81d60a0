// Package transcriber converts recorded audio files into text.
// The local implementation drives the whisper.cpp CLI; the remote one
// uses the OpenAI transcription endpoint.
package transcriber

import (
	"context"
	"fmt"
	"strings"

	"github.com/Zephyruston/whisper-im/config"
)

// Transcriber converts one audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// New returns the Transcriber for the configured provider.
func New(cfg *config.Config) (Transcriber, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but no api key configured")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Language), nil
	default:
		return NewWhisperCLI(cfg), nil
	}
}

// ToolNotFoundError reports that the transcription executable could not
// be located. Nothing has been executed when it is returned.
type ToolNotFoundError struct {
	Name     string
	Searched []string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found (searched PATH and %s)", e.Name, strings.Join(e.Searched, ", "))
}

// ModelNotFoundError reports that no model file exists for the
// configured model name.
type ModelNotFoundError struct {
	Model string
	Tried []string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model %q not found (tried %s)", e.Model, strings.Join(e.Tried, ", "))
}

// RunError reports a transcription tool that started but did not
// produce a transcript.
type RunError struct {
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("whisper-cli: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("whisper-cli: %v", e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
