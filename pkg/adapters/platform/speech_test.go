package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookIn(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestSpeechCommand_Args(t *testing.T) {
	say := DefaultSpeechCommands("darwin")[0]
	assert.Equal(t, []string{"-v", "Kyoko", "今日は"}, say.Args("今日は", "ja-JP"))

	espeak := DefaultSpeechCommands("linux")[0]
	assert.Equal(t, []string{"-v", "ja", "今日は"}, espeak.Args("今日は", "ja-JP"))
	assert.Equal(t, []string{"hello"}, espeak.Args("hello", "en-US"))
}

func TestCommandSpeaker_Available(t *testing.T) {
	cmds := DefaultSpeechCommands("linux")

	s := NewSpeaker(WithSpeechCommands(cmds...), WithLookPath(lookIn()))
	assert.False(t, s.Available())

	s = NewSpeaker(WithSpeechCommands(cmds...), WithLookPath(lookIn("spd-say")))
	assert.True(t, s.Available())
}

func TestCommandSpeaker_SpeakWithoutEngine(t *testing.T) {
	s := NewSpeaker(WithSpeechCommands(), WithLookPath(lookIn()))
	err := s.Speak(context.Background(), "今日は", "ja-JP")
	require.ErrorIs(t, err, ErrNoSpeechEngine)
}

func TestDefaultSpeechCommands_Windows(t *testing.T) {
	assert.Empty(t, DefaultSpeechCommands("windows"))
}
