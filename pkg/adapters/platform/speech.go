package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/aretw0/kotoba/pkg/ports"
)

// ErrNoSpeechEngine is returned when no TTS command is installed.
var ErrNoSpeechEngine = errors.New("no speech engine available")

// SpeechCommand describes how to invoke a TTS program.
// Voices maps a language tag (or its primary subtag) to the program's voice name.
type SpeechCommand struct {
	Name      string
	Command   string
	VoiceFlag string
	Voices    map[string]string
}

// DefaultSpeechCommands lists the known TTS programs per operating system, in
// order of preference.
func DefaultSpeechCommands(goos string) []SpeechCommand {
	switch goos {
	case "darwin":
		return []SpeechCommand{
			{Name: "say", Command: "say", VoiceFlag: "-v", Voices: map[string]string{"ja": "Kyoko"}},
		}
	case "windows":
		return nil
	default:
		return []SpeechCommand{
			{Name: "espeak-ng", Command: "espeak-ng", VoiceFlag: "-v", Voices: map[string]string{"ja": "ja"}},
			{Name: "spd-say", Command: "spd-say", VoiceFlag: "-l", Voices: map[string]string{"ja": "ja"}},
			{Name: "espeak", Command: "espeak", VoiceFlag: "-v", Voices: map[string]string{"ja": "ja"}},
		}
	}
}

// CommandSpeaker implements ports.Speaker by running a local TTS command.
type CommandSpeaker struct {
	candidates []SpeechCommand
	lookPath   func(string) (string, error)
}

var _ ports.Speaker = (*CommandSpeaker)(nil)

// SpeakerOption configures a CommandSpeaker.
type SpeakerOption func(*CommandSpeaker)

// WithSpeechCommands replaces the candidate programs.
func WithSpeechCommands(cmds ...SpeechCommand) SpeakerOption {
	return func(s *CommandSpeaker) {
		s.candidates = cmds
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) SpeakerOption {
	return func(s *CommandSpeaker) {
		s.lookPath = fn
	}
}

// NewSpeaker creates a speaker for the current operating system.
func NewSpeaker(opts ...SpeakerOption) *CommandSpeaker {
	s := &CommandSpeaker{
		candidates: DefaultSpeechCommands(runtime.GOOS),
		lookPath:   exec.LookPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether any candidate program is installed.
func (s *CommandSpeaker) Available() bool {
	_, _, err := s.resolve()
	return err == nil
}

// Speak runs the first installed program and waits for it to finish.
func (s *CommandSpeaker) Speak(ctx context.Context, text, lang string) error {
	cmd, path, err := s.resolve()
	if err != nil {
		return err
	}
	out, err := exec.CommandContext(ctx, path, cmd.Args(text, lang)...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", cmd.Name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (s *CommandSpeaker) resolve() (SpeechCommand, string, error) {
	for _, c := range s.candidates {
		if path, err := s.lookPath(c.Command); err == nil {
			return c, path, nil
		}
	}
	return SpeechCommand{}, "", ErrNoSpeechEngine
}

// Args builds the argument list for text in lang.
func (c SpeechCommand) Args(text, lang string) []string {
	var args []string
	if voice := c.voice(lang); voice != "" && c.VoiceFlag != "" {
		args = append(args, c.VoiceFlag, voice)
	}
	return append(args, text)
}

func (c SpeechCommand) voice(lang string) string {
	if v, ok := c.Voices[lang]; ok {
		return v
	}
	primary, _, _ := strings.Cut(lang, "-")
	return c.Voices[strings.ToLower(primary)]
}
