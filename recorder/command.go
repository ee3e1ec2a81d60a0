package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/go-audio/wav"
)

// tool describes how to drive one capture binary.
type tool struct {
	name string
	args func(path string) []string
}

// NewArecord returns a Recorder backed by ALSA's arecord.
// "-f cd -d 0" captures CD-quality audio until the process is told to stop.
func NewArecord() Recorder {
	return &commandRecorder{tool: tool{
		name: "arecord",
		args: func(path string) []string {
			return []string{"-f", "cd", "-d", "0", path}
		},
	}}
}

// NewPwRecord returns a Recorder backed by PipeWire's pw-record,
// capturing mono 16 kHz, the rate whisper models are trained on.
func NewPwRecord() Recorder {
	return &commandRecorder{tool: tool{
		name: "pw-record",
		args: func(path string) []string {
			return []string{"--rate", "16000", "--channels", "1", path}
		},
	}}
}

// commandRecorder runs a capture binary and monitors it from a goroutine.
type commandRecorder struct {
	tool tool

	mu      sync.Mutex
	cmd     *exec.Cmd
	path    string
	waitErr chan error
}

func (r *commandRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	bin, err := exec.LookPath(r.tool.name)
	if err != nil {
		return &StartError{Tool: r.tool.name, Err: err}
	}

	path := tempAudioPath()
	// stdout/stderr stay connected to /dev/null; arecord chatters about
	// format and progress there
	cmd := exec.CommandContext(ctx, bin, r.tool.args(path)...)
	if err := cmd.Start(); err != nil {
		return &StartError{Tool: r.tool.name, Err: err}
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()

	r.cmd = cmd
	r.path = path
	r.waitErr = waitErr
	slog.Info("recording started", "tool", r.tool.name, "path", path)
	return nil
}

func (r *commandRecorder) Stop() (Result, error) {
	cmd, path, waitErr := r.take()
	if cmd == nil {
		return Result{}, ErrNotRecording
	}

	stopProcess(cmd, waitErr)

	dur, err := wavDuration(path)
	if err != nil {
		os.Remove(path)
		slog.Warn("recording unreadable", "path", path, "error", err)
		return Result{}, ErrEmptyRecording
	}
	if dur < minDuration {
		os.Remove(path)
		slog.Info("recording too short", "duration", dur)
		return Result{}, ErrEmptyRecording
	}

	slog.Info("recording stopped", "duration", dur, "path", path)
	return Result{Path: path, Duration: dur}, nil
}

func (r *commandRecorder) Abort() {
	cmd, path, waitErr := r.take()
	if cmd == nil {
		return
	}
	stopProcess(cmd, waitErr)
	os.Remove(path)
	slog.Info("recording aborted", "path", path)
}

func (r *commandRecorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// take claims the running capture process, leaving the recorder idle.
func (r *commandRecorder) take() (*exec.Cmd, string, chan error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cmd, path, waitErr := r.cmd, r.path, r.waitErr
	r.cmd = nil
	return cmd, path, waitErr
}

// stopProcess asks the capture tool to exit so it can finalize the WAV
// header, then kills it if it lingers past the grace period.
func stopProcess(cmd *exec.Cmd, waitErr chan error) {
	_ = cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-waitErr:
	case <-time.After(stopGrace):
		_ = cmd.Process.Kill()
		<-waitErr
	}
}

// wavDuration decodes just enough of a WAV file to learn its length.
func wavDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("not a valid wav file")
	}
	dur, err := dec.Duration()
	if err != nil {
		return 0, fmt.Errorf("wav duration: %w", err)
	}
	return dur, nil
}
