package speech

import (
	"fmt"
	"io"
	"os"
)

// PrintSpeaker writes announcements to an io.Writer instead of playing audio.
// Used when no TTS binary is available and by the simulate command.
type PrintSpeaker struct {
	Out io.Writer // defaults to stdout
}

func (s *PrintSpeaker) Speak(text string) error {
	out := s.Out
	if out == nil {
		out = os.Stdout
	}
	_, err := fmt.Fprintf(out, "AUDIO: %s\n", text)
	return err
}

func (s *PrintSpeaker) Name() string {
	return "print"
}
