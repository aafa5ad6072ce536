//go:build !voice

package speech

import "context"

// VoiceSource is a placeholder in builds without the voice tag.
type VoiceSource struct{}

// NewVoiceSource is only available with -tags voice.
func NewVoiceSource(VoiceOptions) (*VoiceSource, error) {
	return nil, ErrNoVoice
}

func (*VoiceSource) Listen(context.Context) (string, error) { return "", ErrNoVoice }
func (*VoiceSource) Close() error                            { return nil }

// PlayChime is a no-op without the voice tag.
func PlayChime() error { return nil }
