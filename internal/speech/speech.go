// Package speech abstracts the text-to-speech backend used for
// attendance announcements.
package speech

import (
	"fmt"
	"os/exec"
)

// Speaker plays a single announcement. Speak may block for the full duration
// of the utterance and must be safe to call from a single goroutine at a time;
// the engine's playback worker guarantees serialized calls.
type Speaker interface {
	// Speak plays the given text. A returned error means the announcement
	// was lost; callers do not retry.
	Speak(text string) error

	// Name returns the backend name (for logging).
	Name() string
}

// candidateCommands are tried in order when no explicit command is configured.
var candidateCommands = []string{"espeak", "say", "flite"}

// Detect returns a CommandSpeaker for the configured TTS binary, or for the
// first well-known binary found on PATH. Falls back to a PrintSpeaker when
// no TTS binary is available.
func Detect(command string) Speaker {
	if command != "" {
		if _, err := exec.LookPath(command); err == nil {
			return &CommandSpeaker{Command: command}
		}
		return &PrintSpeaker{}
	}
	for _, c := range candidateCommands {
		if _, err := exec.LookPath(c); err == nil {
			return &CommandSpeaker{Command: c}
		}
	}
	return &PrintSpeaker{}
}

// CommandSpeaker shells out to an external TTS binary that takes the text
// as its single argument (espeak, macOS say, flite -t).
type CommandSpeaker struct {
	Command string
}

func (s *CommandSpeaker) Speak(text string) error {
	args := []string{text}
	if s.Command == "flite" {
		args = []string{"-t", text}
	}
	if err := exec.Command(s.Command, args...).Run(); err != nil {
		return fmt.Errorf("running %s: %w", s.Command, err)
	}
	return nil
}

func (s *CommandSpeaker) Name() string {
	return s.Command
}
