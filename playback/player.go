package playback

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Player plays one buffer. Play returns when playback has finished, been
// handed off, or ctx is done.
type Player interface {
	Play(ctx context.Context, buf *pcm.Buffer) error
}

// Progress is called after each chunk with the number of samples played so
// far and the total.
type Progress func(played, total int)

// Discard is a Player that drops every buffer.
type Discard struct{}

func (Discard) Play(_ context.Context, buf *pcm.Buffer) error {
	logrus.WithFields(logrus.Fields{
		"function": "Play",
		"samples":  buf.Len(),
	}).Debug("Playback disabled; buffer discarded")

	return nil
}
