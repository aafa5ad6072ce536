//go:build voice

package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/gordonklaus/portaudio"
)

const frameSize = 320 // 20ms at 16kHz

// VoiceSource records one utterance from the default microphone per Listen
// call and transcribes it with whisper.cpp.
type VoiceSource struct {
	model      whisper.Model
	language   string
	sampleRate int
	segmenter  Segmenter
	logger     *slog.Logger
}

func NewVoiceSource(opts VoiceOptions) (*VoiceSource, error) {
	if opts.ModelPath == "" {
		return nil, errors.New("whisper model path not configured")
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = 16000
	}
	if opts.Language == "" {
		opts.Language = "auto"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("init audio: %w", err)
	}
	m, err := whisper.New(opts.ModelPath)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("load whisper model: %w", err)
	}
	seg := opts.Segmenter
	seg.FrameLength = time.Duration(frameSize) * time.Second / time.Duration(opts.SampleRate)
	return &VoiceSource{
		model:      m,
		language:   opts.Language,
		sampleRate: opts.SampleRate,
		segmenter:  seg,
		logger:     opts.Logger,
	}, nil
}

func (v *VoiceSource) Close() error {
	err := v.model.Close()
	portaudio.Terminate()
	return err
}

// Listen returns "" when nothing was said.
func (v *VoiceSource) Listen(ctx context.Context) (string, error) {
	pcm, err := v.record(ctx)
	if err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", nil
	}
	v.logger.Debug("recorded", "samples", len(pcm))
	return v.transcribe(ctx, pcm)
}

func (v *VoiceSource) record(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(v.sampleRate), len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open microphone: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start microphone: %w", err)
	}
	defer stream.Stop()

	seg := v.segmenter
	out := make([]float32, 0, v.sampleRate*3)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read microphone: %w", err)
		}
		keep, done := seg.Feed(buf)
		if keep {
			out = append(out, buf...)
		}
		if done {
			break
		}
	}
	if !seg.Heard() {
		return nil, nil
	}
	return out, nil
}

func (v *VoiceSource) transcribe(ctx context.Context, pcm []float32) (string, error) {
	wctx, err := v.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new whisper context: %w", err)
	}
	if err := wctx.SetLanguage(v.language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetThreads(uint(runtime.NumCPU()))
	if err := wctx.Process(pcm, nil, nil, nil); err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

var speakerOnce sync.Once

// PlayChime plays the wake chime and waits for it to finish.
func PlayChime() error {
	var err error
	speakerOnce.Do(func() {
		err = speaker.Init(ChimeRate, ChimeRate.N(time.Second/10))
	})
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(Chime(), beep.Callback(func() { close(done) })))
	<-done
	return nil
}
