package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/Zephyruston/whisper-im/config"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

// installFakeCLI puts a whisper-cli stand-in on PATH.
func installFakeCLI(t *testing.T, script string) {
	t.Helper()
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, cliName), []byte(script), 0755); err != nil {
		t.Fatalf("write fake cli: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// argvRecorder builds a fake CLI script that writes one argument per
// line to argsFile and prints the given stdout.
func argvRecorder(argsFile, stdout string) string {
	return fmt.Sprintf("#!/bin/sh\nprintf '%%s\\n' \"$@\" > %q\nprintf '%%s\\n' %q\n", argsFile, stdout)
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read recorded args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestTranscribeToolNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := NewWhisperCLI(config.Default()).Transcribe(context.Background(), "take.wav")

	var notFound *ToolNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Transcribe() error = %v, want ToolNotFoundError", err)
	}
	if notFound.Name != cliName {
		t.Errorf("Name = %q, want %q", notFound.Name, cliName)
	}
	if len(notFound.Searched) == 0 || !strings.Contains(notFound.Searched[0], "whisper.cpp") {
		t.Errorf("Searched = %v, want the source-build fallback path", notFound.Searched)
	}
}

func TestTranscribeModelNotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	installFakeCLI(t, argvRecorder(argsFile, "text"))

	cfg := config.Default()
	cfg.ModelsDir = filepath.Join(t.TempDir(), "nowhere")

	_, err := NewWhisperCLI(cfg).Transcribe(context.Background(), "take.wav")

	var notFound *ModelNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Transcribe() error = %v, want ModelNotFoundError", err)
	}
	if notFound.Model != "base" {
		t.Errorf("Model = %q, want %q", notFound.Model, "base")
	}
	if len(notFound.Tried) != 2 {
		t.Fatalf("Tried = %v, want the configured dir and the checkout fallback", notFound.Tried)
	}
	if _, statErr := os.Stat(argsFile); !os.IsNotExist(statErr) {
		t.Error("whisper-cli ran despite the missing model")
	}
}

func TestTranscribeDefaultBackendArgs(t *testing.T) {
	t.Chdir(t.TempDir())

	modelsDir := t.TempDir()
	touch(t, filepath.Join(modelsDir, "ggml-base.bin"))

	argsFile := filepath.Join(t.TempDir(), "args.txt")
	installFakeCLI(t, argvRecorder(argsFile, "  你好，世界  "))

	cfg := config.Default()
	cfg.ModelsDir = modelsDir

	audio := filepath.Join(t.TempDir(), "take.wav")
	touch(t, audio)

	got, err := NewWhisperCLI(cfg).Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "你好，世界" {
		t.Errorf("transcript = %q, want trimmed %q", got, "你好，世界")
	}

	want := []string{
		"-m", filepath.Join(modelsDir, "ggml-base.bin"),
		"-l", "zh",
		"-t", "4",
		"-f", audio,
	}
	if argv := readArgs(t, argsFile); !slices.Equal(argv, want) {
		t.Errorf("argv = %v, want %v", argv, want)
	}
}

func TestTranscribeOpenVINO(t *testing.T) {
	t.Chdir(t.TempDir())

	modelsDir := t.TempDir()
	touch(t, filepath.Join(modelsDir, "ggml-small.bin"))

	argsFile := filepath.Join(t.TempDir(), "args.txt")
	installFakeCLI(t, argvRecorder(argsFile, "hello"))

	cfg := config.Default()
	cfg.Backend = config.BackendOpenVINO
	cfg.ModelsDir = modelsDir
	cfg.Model = "small"
	cfg.Language = "en"
	cfg.Threads = 8

	audio := filepath.Join(t.TempDir(), "take.wav")
	touch(t, audio)
	w := NewWhisperCLI(cfg)

	// without the converted encoder pair the tool must not run
	_, err := w.Transcribe(context.Background(), audio)
	if err == nil || !strings.Contains(err.Error(), "encoder") {
		t.Fatalf("Transcribe() error = %v, want missing-encoder error", err)
	}
	if _, statErr := os.Stat(argsFile); !os.IsNotExist(statErr) {
		t.Fatal("whisper-cli ran despite the missing encoder")
	}

	touch(t, filepath.Join(modelsDir, "ggml-small-encoder-openvino.xml"))
	touch(t, filepath.Join(modelsDir, "ggml-small-encoder-openvino.bin"))

	got, err := w.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "hello" {
		t.Errorf("transcript = %q, want %q", got, "hello")
	}

	want := []string{
		"-m", filepath.Join(modelsDir, "ggml-small.bin"),
		"-l", "en",
		"-t", "8",
		"-f", audio,
		"-oved", "CPU",
	}
	if argv := readArgs(t, argsFile); !slices.Equal(argv, want) {
		t.Errorf("argv = %v, want %v", argv, want)
	}
}

func TestTranscribeFallbackLocations(t *testing.T) {
	workDir := t.TempDir()
	t.Chdir(workDir)
	t.Setenv("PATH", t.TempDir())

	// binary from a source build, model in the checkout's models dir
	binDir := filepath.Join(workDir, "whisper.cpp", "build", "bin")
	if err := os.MkdirAll(binDir, 0755); err != nil {
		t.Fatal(err)
	}
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	if err := os.WriteFile(filepath.Join(binDir, cliName), []byte(argvRecorder(argsFile, "ok")), 0755); err != nil {
		t.Fatal(err)
	}

	modelDir := filepath.Join(workDir, "whisper.cpp", "models")
	if err := os.MkdirAll(modelDir, 0755); err != nil {
		t.Fatal(err)
	}
	touch(t, filepath.Join(modelDir, "ggml-base.bin"))

	cfg := config.Default()
	cfg.ModelsDir = filepath.Join(workDir, "nowhere")

	got, err := NewWhisperCLI(cfg).Transcribe(context.Background(), "take.wav")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("transcript = %q, want %q", got, "ok")
	}

	argv := readArgs(t, argsFile)
	if len(argv) < 2 || argv[1] != filepath.Join("whisper.cpp", "models", "ggml-base.bin") {
		t.Errorf("argv = %v, want the checkout fallback model path", argv)
	}
}

func TestTranscribeRunError(t *testing.T) {
	t.Chdir(t.TempDir())

	modelsDir := t.TempDir()
	touch(t, filepath.Join(modelsDir, "ggml-base.bin"))
	installFakeCLI(t, "#!/bin/sh\necho 'failed to load model' >&2\nexit 3\n")

	cfg := config.Default()
	cfg.ModelsDir = modelsDir

	_, err := NewWhisperCLI(cfg).Transcribe(context.Background(), "take.wav")

	var runErr *RunError
	if !errors.As(err, &runErr) {
		t.Fatalf("Transcribe() error = %v, want RunError", err)
	}
	if runErr.Stderr != "failed to load model" {
		t.Errorf("Stderr = %q, want %q", runErr.Stderr, "failed to load model")
	}
}
