package main

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-voicefx/capture"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/playback"
	"github.com/cwbudde/algo-voicefx/wavio"
)

func runPlay(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet(a, "play", "-in FILE [flags]")
	in := fs.String("in", "", "WAV file to play")
	backend := fs.String("backend", a.cfg.Playback.Backend, "playback backend: portaudio, nats or none")

	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *in == "" {
		return fmt.Errorf("%w: -in is required", errUsage)
	}

	a.cfg.Playback.Backend = *backend

	buf, err := wavio.Decode(*in)
	if err != nil {
		return err
	}

	return a.play(ctx, buf, *in)
}

// play sends buf to the configured playback backend.
func (a *app) play(ctx context.Context, buf *pcm.Buffer, label string) error {
	p, cleanup, err := a.player(label)
	if err != nil {
		return err
	}
	defer cleanup()

	err = p.Play(ctx, buf)
	a.metrics.RecordPlayback(ctx, a.cfg.Playback.Backend, err)

	return err
}

func (a *app) player(label string) (playback.Player, func(), error) {
	pc := a.cfg.Playback

	switch pc.Backend {
	case "none":
		return playback.Discard{}, func() {}, nil
	case "nats":
		pub, err := playback.DialNATS(pc.NATS.URL, pc.NATS.Subject, pc.NATS.Timeout())
		if err != nil {
			return nil, nil, err
		}

		return pub.WithLabel(label).WithChunkBytes(pc.NATS.ChunkBytes), pub.Close, nil
	case "portaudio":
		pa := capture.NewPortAudioBackend()
		if err := pa.Initialize(); err != nil {
			return nil, nil, err
		}

		player := playback.NewPortAudioPlayer(
			playback.WithChunkSize(pc.ChunkSize),
			playback.WithProgress(func(played, total int) {
				fmt.Fprintf(a.stderr, "\rPlaying %s: %3.0f%%", label, 100*float64(played)/float64(total))

				if played == total {
					fmt.Fprintln(a.stderr)
				}
			}),
		)

		return player, func() { _ = pa.Terminate() }, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown playback backend %q", errUsage, pc.Backend)
	}
}
