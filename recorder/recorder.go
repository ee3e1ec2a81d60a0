// Package recorder captures microphone audio by driving an external
// capture process that writes a WAV file.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Zephyruston/whisper-im/config"
)

// ErrNotRecording is returned when stopping a recorder that is not running.
var ErrNotRecording = errors.New("not recording")

// ErrAlreadyRecording is returned when starting a recorder that is running.
var ErrAlreadyRecording = errors.New("already recording")

// ErrEmptyRecording is returned by Stop when the captured audio is
// unreadable or too short to transcribe.
var ErrEmptyRecording = errors.New("recording empty or too short")

// StartError wraps a failure to launch the capture process, most
// commonly a missing binary.
type StartError struct {
	Tool string
	Err  error
}

func (e *StartError) Error() string { return fmt.Sprintf("start %s: %v", e.Tool, e.Err) }
func (e *StartError) Unwrap() error { return e.Err }

const (
	// minDuration is the shortest recording worth transcribing.
	minDuration = 300 * time.Millisecond

	// stopGrace is how long the capture tool gets to exit on SIGTERM and
	// finalize the WAV header before being killed.
	stopGrace = 2 * time.Second
)

// Result describes a finished recording.
type Result struct {
	Path     string
	Duration time.Duration
}

// Recorder drives one capture process at a time.
type Recorder interface {
	// Start launches the capture process writing to a fresh temp file.
	Start(ctx context.Context) error

	// Stop terminates the capture process and validates the WAV file.
	// On ErrEmptyRecording the temp file has already been removed.
	Stop() (Result, error)

	// Abort terminates the capture process and discards the file.
	Abort()

	// Recording reports whether a capture process is running.
	Recording() bool
}

// New returns the Recorder for the configured capture tool.
func New(cfg *config.Config) Recorder {
	switch cfg.Recorder {
	case config.RecorderPwRecord:
		return NewPwRecord()
	default:
		return NewArecord()
	}
}

// tempAudioPath returns a unique capture target in the system temp dir.
func tempAudioPath() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	return filepath.Join(os.TempDir(), fmt.Sprintf("whisper-im-%s.wav", id))
}

// CleanupStale removes capture files left behind by a previous run,
// for example after a crash mid-session.
func CleanupStale() {
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "whisper-im-*.wav"))
	if err != nil {
		return
	}
	for _, path := range matches {
		if err := os.Remove(path); err == nil {
			slog.Debug("removed stale recording", "path", path)
		}
	}
}
