package transcriber

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Zephyruston/whisper-im/config"
)

const (
	cliName = "whisper-cli"

	// transcribeTimeout bounds one whisper-cli run. Even the large model
	// finishes a dictated sentence well inside this on a laptop CPU.
	transcribeTimeout = 120 * time.Second
)

// cliFallbackDir is where a source build of whisper.cpp places the
// binary, relative to the working directory.
var cliFallbackDir = filepath.Join("whisper.cpp", "build", "bin")

// WhisperCLI transcribes audio by running the whisper.cpp CLI.
type WhisperCLI struct {
	backend   string
	modelsDir string
	model     string
	language  string
	threads   int
}

// NewWhisperCLI builds a local transcriber from the configuration.
func NewWhisperCLI(cfg *config.Config) *WhisperCLI {
	return &WhisperCLI{
		backend:   cfg.Backend,
		modelsDir: cfg.ModelsDir,
		model:     cfg.Model,
		language:  cfg.Language,
		threads:   cfg.Threads,
	}
}

// Transcribe runs whisper-cli on the audio file and returns its stdout,
// trimmed. Binary and model are resolved fresh on every call so the
// user can install them between attempts without restarting.
func (w *WhisperCLI) Transcribe(ctx context.Context, audioPath string) (string, error) {
	binPath, err := w.findBinary()
	if err != nil {
		return "", err
	}
	modelPath, err := w.findModel()
	if err != nil {
		return "", err
	}
	if w.backend == config.BackendOpenVINO {
		if err := checkOpenVINOEncoder(modelPath); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binPath, w.args(modelPath, audioPath)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Info("transcribing", "bin", binPath, "model", modelPath, "backend", w.backend)
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", &RunError{Err: fmt.Errorf("timed out after %s", transcribeTimeout)}
		}
		return "", &RunError{Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}
	slog.Info("transcription finished", "elapsed", time.Since(start))

	return strings.TrimSpace(stdout.String()), nil
}

// args builds the whisper-cli argument list.
func (w *WhisperCLI) args(modelPath, audioPath string) []string {
	args := []string{
		"-m", modelPath,
		"-l", w.language,
		"-t", strconv.Itoa(w.threads),
		"-f", audioPath,
	}
	if w.backend == config.BackendOpenVINO {
		args = append(args, "-oved", "CPU")
	}
	return args
}

// findBinary looks for whisper-cli on PATH, then in the conventional
// source-build location.
func (w *WhisperCLI) findBinary() (string, error) {
	if path, err := exec.LookPath(cliName); err == nil {
		return path, nil
	}
	fallback := filepath.Join(cliFallbackDir, cliName)
	if _, err := os.Stat(fallback); err == nil {
		return fallback, nil
	}
	return "", &ToolNotFoundError{Name: cliName, Searched: []string{fallback}}
}

// findModel resolves ggml-<model>.bin in the configured models dir,
// then in the conventional whisper.cpp checkout location.
func (w *WhisperCLI) findModel() (string, error) {
	file := fmt.Sprintf("ggml-%s.bin", w.model)
	tried := []string{
		filepath.Join(w.modelsDir, file),
		filepath.Join("whisper.cpp", "models", file),
	}
	for _, path := range tried {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", &ModelNotFoundError{Model: w.model, Tried: tried}
}

// checkOpenVINOEncoder verifies the converted encoder pair that the
// OpenVINO build of whisper.cpp loads alongside the ggml model.
func checkOpenVINOEncoder(modelPath string) error {
	base := strings.TrimSuffix(modelPath, ".bin")
	for _, ext := range []string{".xml", ".bin"} {
		enc := base + "-encoder-openvino" + ext
		if _, err := os.Stat(enc); err != nil {
			return fmt.Errorf("openvino encoder missing: %s", enc)
		}
	}
	return nil
}
