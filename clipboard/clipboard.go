// Package clipboard writes text to the Wayland clipboard via wl-copy.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const tool = "wl-copy"

// ErrToolMissing is returned when wl-copy is not installed.
var ErrToolMissing = errors.New("wl-copy not found on PATH")

// writeTimeout bounds the handoff to wl-copy. It only trips when the
// Wayland compositor is unreachable.
const writeTimeout = 5 * time.Second

// Write places text on the clipboard.
func Write(ctx context.Context, text string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%w: %v", ErrToolMissing, err)
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, tool)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// wl-copy forks a child to serve the selection, and that child
	// inherits stderr; WaitDelay keeps Run from blocking on the pipe
	// the child holds open
	cmd.WaitDelay = time.Second

	err := cmd.Run()
	if err != nil && !errors.Is(err, exec.ErrWaitDelay) {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %v: %s", tool, err, msg)
		}
		return fmt.Errorf("%s: %w", tool, err)
	}
	return nil
}
