package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

const defaultChunkSize = 2048

// outputStream is the part of *portaudio.Stream used for blocking writes.
type outputStream interface {
	Start() error
	Write() error
	Stop() error
	Close() error
}

// openFunc opens a mono output stream that plays out from buf on Write.
type openFunc func(sampleRate float64, buf []int16) (outputStream, error)

// PortAudioOption configures a PortAudioPlayer.
type PortAudioOption func(*PortAudioPlayer)

// WithChunkSize sets how many samples are written per blocking Write.
func WithChunkSize(n int) PortAudioOption {
	return func(p *PortAudioPlayer) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithProgress installs a progress callback. It runs on the playing
// goroutine.
func WithProgress(fn Progress) PortAudioOption {
	return func(p *PortAudioPlayer) {
		p.progress = fn
	}
}

// PortAudioPlayer plays on the default output device with blocking writes.
// PortAudio must be initialised while Play runs.
type PortAudioPlayer struct {
	chunkSize int
	progress  Progress
	open      openFunc
}

// NewPortAudioPlayer returns a player writing 2048-sample chunks by default.
func NewPortAudioPlayer(opts ...PortAudioOption) *PortAudioPlayer {
	p := &PortAudioPlayer{
		chunkSize: defaultChunkSize,
		open:      openDefaultOutput,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

func openDefaultOutput(sampleRate float64, buf []int16) (outputStream, error) {
	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}

	return stream, nil
}

// Play writes buf to the device chunk by chunk. The last chunk is padded
// with silence. Cancelling ctx stops after the chunk being written.
func (p *PortAudioPlayer) Play(ctx context.Context, buf *pcm.Buffer) error {
	if buf == nil {
		return errors.New("playback: nil buffer")
	}

	log := logrus.WithFields(logrus.Fields{
		"function":    "Play",
		"sample_rate": buf.SampleRate(),
		"samples":     buf.Len(),
	})

	out := make([]int16, p.chunkSize)

	stream, err := p.open(float64(buf.SampleRate()), out)
	if err != nil {
		return fmt.Errorf("playback: open output stream: %w", err)
	}

	defer func() {
		if err := stream.Close(); err != nil {
			log.WithError(err).Warn("Failed to close output stream")
		}
	}()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("playback: start output stream: %w", err)
	}

	defer func() {
		if err := stream.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop output stream")
		}
	}()

	log.Info("Playback started")

	samples := buf.Samples()
	played := 0

	for played < len(samples) {
		if err := ctx.Err(); err != nil {
			log.WithField("played", played).Info("Playback cancelled")
			return err
		}

		n := copy(out, samples[played:])
		clear(out[n:])

		if err := stream.Write(); err != nil {
			return fmt.Errorf("playback: write: %w", err)
		}

		played += n

		if p.progress != nil {
			p.progress(played, len(samples))
		}
	}

	log.Info("Playback finished")

	return nil
}
