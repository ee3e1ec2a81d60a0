// Package hotkey provides a global hotkey listener using gohook.
// Each press of the combo toggles recording, mirroring the in-window
// Space shortcut.
package hotkey

import (
	"strings"
	"sync"

	hook "github.com/robotn/gohook"
)

// Listener watches one global key combo and emits a signal per press.
type Listener struct {
	keys []string
	ch   chan struct{}
	done chan struct{}
	once sync.Once
}

// New creates a Listener for a combo like "ctrl+shift+r".
func New(combo string) *Listener {
	return &Listener{
		keys: parseCombo(combo),
		ch:   make(chan struct{}, 4),
		done: make(chan struct{}),
	}
}

// parseCombo splits "ctrl+shift+r" into the lowercase key names gohook
// expects.
func parseCombo(combo string) []string {
	parts := strings.Split(strings.ToLower(combo), "+")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keys = append(keys, p)
		}
	}
	return keys
}

// Presses returns the channel that receives one signal per activation.
// The channel is closed when Stop is called.
func (l *Listener) Presses() <-chan struct{} {
	return l.ch
}

// Start begins listening for the global hotkey.
// It blocks until Stop is called; run it in a goroutine.
func (l *Listener) Start() {
	hook.Register(hook.KeyDown, l.keys, func(e hook.Event) {
		select {
		case l.ch <- struct{}{}:
		default: // drop presses while the consumer is busy
		}
	})

	evChan := hook.Start()
	go func() {
		<-l.done
		hook.End()
	}()
	<-hook.Process(evChan)
	close(l.ch)
}

// Stop terminates the listener. It is safe to call multiple times.
func (l *Listener) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}
