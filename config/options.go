package config

import (
	"fmt"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/Zephyruston/whisper-im/internal/types"
)

var modelsOpenVINO = []string{"tiny", "base", "small", "medium"}

// ModelsFor returns the model names usable with the given backend.
// The OpenVINO encoders published for whisper.cpp stop at medium.
func ModelsFor(backend string) []string {
	if backend == BackendOpenVINO {
		return slices.Clone(modelsOpenVINO)
	}
	return slices.Clone(Models)
}

// ModelOptions returns the model dropdown entries for the given backend.
func ModelOptions(backend string) []types.Option {
	names := ModelsFor(backend)
	opts := make([]types.Option, 0, len(names))
	for _, name := range names {
		opts = append(opts, types.Option{Value: name, Label: name})
	}
	return opts
}

// LanguageOptions returns the transcription language choices with
// human-readable labels.
func LanguageOptions() []types.Option {
	opts := make([]types.Option, 0, len(Languages))
	for _, code := range Languages {
		opts = append(opts, types.Option{Value: code, Label: languageLabel(code)})
	}
	return opts
}

// languageLabel renders a language code as "English name (native name)".
func languageLabel(code string) string {
	if code == "auto" {
		return "Auto detect"
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	if self := display.Self.Name(tag); self != "" && self != name {
		return fmt.Sprintf("%s (%s)", name, self)
	}
	return name
}

// BackendOptions returns the transcription backend choices.
func BackendOptions() []types.Option {
	return []types.Option{
		{Value: BackendDefault, Label: "Default (CPU)"},
		{Value: BackendOpenVINO, Label: "OpenVINO"},
	}
}

// ProviderOptions returns the transcription provider choices.
func ProviderOptions() []types.Option {
	return []types.Option{
		{Value: ProviderLocal, Label: "Local whisper.cpp"},
		{Value: ProviderOpenAI, Label: "OpenAI API"},
	}
}

// RecorderOptions returns the capture tool choices.
func RecorderOptions() []types.Option {
	return []types.Option{
		{Value: RecorderArecord, Label: "arecord (ALSA)"},
		{Value: RecorderPwRecord, Label: "pw-record (PipeWire)"},
	}
}

// ThreadOptions returns the allowed thread counts.
func ThreadOptions() []int {
	return slices.Clone(Threads)
}
