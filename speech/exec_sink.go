package speech

import (
	"context"
	"fmt"
	"os/exec"
)

// ExecSink speaks by shelling out to a local TTS command, e.g. "say" on
// macOS or "espeak-ng" on Linux. The command receives the text as its last
// argument and is expected to block until playback finishes.
type ExecSink struct {
	Command string
	Args    []string
}

func NewExecSink(command string, args ...string) *ExecSink {
	return &ExecSink{Command: command, Args: args}
}

func (s *ExecSink) Speak(ctx context.Context, text string) error {
	if s.Command == "" {
		return fmt.Errorf("exec sink: empty command")
	}
	args := append(append([]string{}, s.Args...), text)
	cmd := exec.CommandContext(ctx, s.Command, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("exec sink: %s: %w", s.Command, err)
	}
	return nil
}
