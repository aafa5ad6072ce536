package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/eva/internal/config"
	"github.com/mj1618/eva/internal/ipc"
	"github.com/mj1618/eva/internal/model"
	"github.com/mj1618/eva/internal/output"
	"github.com/mj1618/eva/internal/session"
	"github.com/mj1618/eva/internal/speech"
	"github.com/spf13/cobra"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Run the wake-word session loop",
	Long: `Listen for the wake word, then execute every command heard until the
goodbye phrase or the session timeout. Transcripts come from stdin, one per
line, or from the microphone when eva is built with the voice tag.

A running listener also accepts control messages from "eva trigger".

Examples:
  eva listen
  eva listen --wake-word computer --session-timeout 30s
  eva listen --source voice`,
	RunE: runListen,
}

func init() {
	rootCmd.AddCommand(listenCmd)
	config.RegisterSessionFlags(listenCmd.Flags())
}

func runListen(cmd *cobra.Command, args []string) error {
	if err := cfg.ApplySessionFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := openSource(cfg.Speech)
	if err != nil {
		return err
	}
	defer closeSrc()

	control := make(chan ipc.ControlMessage, 8)
	if srv, err := ipc.Listen(cfg.Socket, logger); err != nil {
		logger.Warn("control socket disabled", "path", cfg.Socket, "err", err)
	} else {
		defer srv.Close()
		go func() {
			err := srv.Serve(ctx, func(msg ipc.ControlMessage) {
				select {
				case control <- msg:
				case <-ctx.Done():
				}
			})
			if err != nil {
				logger.Warn("control socket stopped", "err", err)
			}
		}()
	}

	var speaker speech.Speaker = speech.LogSpeaker{Logger: logger}
	if cfg.Session.Speak {
		speaker = speech.DefaultSpeaker(logger)
	}

	loop := &session.Loop{
		Source: src,
		Exec:   a.pipeline,
		Session: session.NewManager(session.Options{
			WakeWord:      cfg.Session.WakeWord,
			GoodbyePhrase: cfg.Session.GoodbyePhrase,
			Timeout:       cfg.Session.Timeout,
		}),
		Speaker: speaker,
		Control: control,
		Chime:   speech.PlayChime,
		OnResult: func(command string, res model.Result) {
			if err := output.Print(output.RunResult{
				OK:      res.Success,
				Command: command,
				Message: res.Message,
				Error:   res.Error,
			}); err != nil {
				logger.Warn("print result", "err", err)
			}
		},
		Logger: logger,
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openSource returns the transcript source named by c.Source and its
// cleanup function.
func openSource(c config.SpeechConfig) (speech.Source, func() error, error) {
	switch c.Source {
	case "", "stdin":
		return speech.NewLineSource(os.Stdin), func() error { return nil }, nil
	case "voice":
		vs, err := speech.NewVoiceSource(speech.VoiceOptions{
			ModelPath:  c.WhisperModel,
			Language:   c.Language,
			SampleRate: c.SampleRate,
			Segmenter: speech.Segmenter{
				Threshold: speech.DefaultThreshold,
				Silence:   c.SilenceCutoff,
				Max:       c.MaxRecord,
			},
			Logger: logger,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("voice source: %w", err)
		}
		return vs, vs.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown speech source: %q (expected stdin or voice)", c.Source)
	}
}
