package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/Zephyruston/whisper-im/config"
	"github.com/Zephyruston/whisper-im/internal/types"
	"github.com/Zephyruston/whisper-im/recorder"
	"github.com/Zephyruston/whisper-im/transcriber"
)

// quitDelay is how long the done status stays visible before the app
// closes itself after a successful copy.
const quitDelay = 500 * time.Millisecond

// session is one record-transcribe-copy round trip. It carries its own
// copy of the configuration so that saving settings mid-flight does not
// change a recording already in progress.
type session struct {
	rec recorder.Recorder
	cfg config.Config
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording Session
// ─────────────────────────────────────────────────────────────────────────────

// ToggleRecording starts or stops a recording session. It does nothing
// while a transcription is in flight.
func (s *Service) ToggleRecording() {
	switch s.State() {
	case types.StateIdle:
		s.StartRecording()
	case types.StateRecording:
		s.StopRecording()
	}
}

// StartRecording spawns the capture process and enters the recording
// state. Settings are snapshotted here for the rest of the session.
func (s *Service) StartRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != types.StateIdle {
		return recorder.ErrAlreadyRecording
	}

	cfg := *s.cfg
	rec := s.newRecorder(&cfg)
	if err := rec.Start(context.Background()); err != nil {
		slog.Error("start recording", "error", err)
		s.pushStatus(types.StateIdle, startMessage(err), toneError)
		return err
	}

	s.session = &session{rec: rec, cfg: cfg}
	s.pushStatus(types.StateRecording, "Recording... press STOP or SPACE to finish", toneBusy)
	return nil
}

// StopRecording ends the capture and hands the audio to the
// transcription pipeline. The pipeline runs on its own goroutine so the
// UI keeps responding while whisper works.
func (s *Service) StopRecording() {
	s.mu.Lock()
	if s.state != types.StateRecording || s.session == nil {
		s.mu.Unlock()
		return
	}
	sess := s.session
	s.session = nil
	s.pushStatus(types.StateTranscribing, "Transcribing...", toneBusy)
	s.mu.Unlock()

	go s.runPipeline(sess)
}

// CopyTranscript writes the last transcript to the clipboard again.
func (s *Service) CopyTranscript() error {
	s.mu.Lock()
	text := s.transcript
	s.mu.Unlock()

	if text == "" {
		return errors.New("nothing to copy yet")
	}
	if err := s.writeClipboard(text); err != nil {
		return err
	}
	s.note("Copied to clipboard", toneOK)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Pipeline
// ─────────────────────────────────────────────────────────────────────────────

// runPipeline turns a finished recording into clipboard text. Always
// returns the service to idle.
func (s *Service) runPipeline(sess *session) {
	res, err := sess.rec.Stop()
	if err != nil {
		if errors.Is(err, recorder.ErrEmptyRecording) {
			s.setStatus(types.StateIdle, "Recording too short or empty, please try again", toneWarn)
		} else {
			slog.Error("stop recording", "error", err)
			s.setStatus(types.StateIdle, "Recording failed: "+err.Error(), toneError)
		}
		return
	}

	text, err := s.transcribe(&sess.cfg, res.Path)
	if err != nil {
		// The audio file stays on disk so a failed run can be retried
		// by hand with whisper-cli.
		slog.Error("transcription failed", "audio", res.Path, "error", err)
		s.setStatus(types.StateIdle, transcribeMessage(err), toneError)
		return
	}
	if err := os.Remove(res.Path); err != nil {
		slog.Warn("remove audio file", "path", res.Path, "error", err)
	}

	if text == "" {
		s.setStatus(types.StateIdle, "No speech detected, please try again", toneWarn)
		return
	}

	normalized, err := s.normalize(text, sess.cfg.Language)
	if err != nil {
		slog.Warn("normalize transcript", "error", err)
		normalized = text
	}

	s.deliver(normalized, res.Duration)
}

func (s *Service) transcribe(cfg *config.Config, audioPath string) (string, error) {
	tr, err := s.newTranscriber(cfg)
	if err != nil {
		return "", err
	}
	return tr.Transcribe(context.Background(), audioPath)
}

// deliver publishes the transcript and copies it to the clipboard. On a
// successful copy the app quits shortly after, on failure it stays open
// so the text can still be copied by hand.
func (s *Service) deliver(text string, dur time.Duration) {
	copied := true
	if err := s.writeClipboard(text); err != nil {
		copied = false
		slog.Error("copy to clipboard", "error", err)
	}

	s.mu.Lock()
	s.transcript = text
	if copied {
		s.pushStatus(types.StateIdle, "Done, copied to clipboard", toneOK)
	} else {
		s.pushStatus(types.StateIdle, "Transcribed, but the clipboard copy failed", toneWarn)
	}
	s.emit(EventTranscript, types.Transcript{
		Text:      text,
		Copied:    copied,
		DurationS: int64(dur.Round(time.Second).Seconds()),
	})
	s.mu.Unlock()

	slog.Info("transcript delivered", "chars", len(text), "copied", copied)
	if copied {
		s.scheduleQuit()
	}
}

func (s *Service) scheduleQuit() {
	s.mu.Lock()
	quit := s.quit
	s.mu.Unlock()
	time.AfterFunc(quitDelay, quit)
}

// ─────────────────────────────────────────────────────────────────────────────
// Status Messages
// ─────────────────────────────────────────────────────────────────────────────

func startMessage(err error) string {
	var start *recorder.StartError
	if errors.As(err, &start) {
		return start.Tool + " not available, check your audio setup"
	}
	return "Recording failed: " + err.Error()
}

func transcribeMessage(err error) string {
	var tool *transcriber.ToolNotFoundError
	var model *transcriber.ModelNotFoundError
	switch {
	case errors.As(err, &tool):
		return "whisper-cli not found, build whisper.cpp first"
	case errors.As(err, &model):
		return "Model " + model.Model + " is missing from the models directory"
	}
	return "Transcription failed: " + err.Error()
}
