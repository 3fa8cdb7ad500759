package playback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nuid"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/wavio"
)

const (
	defaultPublishTimeout = 5 * time.Second

	// defaultChunkBytes of WAV data encode to about 700 KB of base64,
	// below the server's default 1 MB max_payload.
	defaultChunkBytes = 512 << 10

	// envelopeBytes is reserved for the JSON fields around AudioData.
	envelopeBytes = 1 << 10
)

// AudioMessage is the JSON payload published for a remote player. A WAV
// image is split across messages sharing a StreamID; a player joins the
// AudioData of sequences 0 to Chunks-1 and decodes once IsFinal arrives.
type AudioMessage struct {
	StreamID    string `json:"stream_id"`
	Sequence    int    `json:"sequence"`
	Chunks      int    `json:"chunks"`
	IsFinal     bool   `json:"is_final"`
	AudioData   []byte `json:"audio_data"`
	AudioFormat string `json:"audio_format"`
	SampleRate  int    `json:"sample_rate"`
	Samples     int    `json:"samples"`
	DurationMs  int64  `json:"duration_ms"`
	// Label describes the content, e.g. the applied effect.
	Label string `json:"label,omitempty"`
}

// Conn is the subset of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

var _ Conn = (*nats.Conn)(nil)

// payloadLimiter is implemented by *nats.Conn once connected.
type payloadLimiter interface {
	MaxPayload() int64
}

// NATSPublisher publishes finished buffers as WAV images on a subject.
type NATSPublisher struct {
	conn       Conn
	subject    string
	timeout    time.Duration
	label      string
	chunkBytes int
}

// DialNATS connects to url and returns a publisher on subject.
func DialNATS(url, subject string, timeout time.Duration) (*NATSPublisher, error) {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	nc, err := nats.Connect(url, nats.Name("voicefx"), nats.Timeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("playback: connect to NATS at %s: %w", url, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "DialNATS",
		"url":      url,
		"subject":  subject,
	}).Info("Connected to NATS")

	return NewNATSPublisher(nc, subject, timeout), nil
}

// NewNATSPublisher publishes on an existing connection.
func NewNATSPublisher(conn Conn, subject string, timeout time.Duration) *NATSPublisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	return &NATSPublisher{
		conn:       conn,
		subject:    subject,
		timeout:    timeout,
		chunkBytes: defaultChunkBytes,
	}
}

// WithLabel returns a copy of p that tags messages with label.
func (p *NATSPublisher) WithLabel(label string) *NATSPublisher {
	cp := *p
	cp.label = label

	return &cp
}

// WithChunkBytes returns a copy of p that puts at most n bytes of WAV data
// in one message. n <= 0 keeps the current size.
func (p *NATSPublisher) WithChunkBytes(n int) *NATSPublisher {
	cp := *p
	if n > 0 {
		cp.chunkBytes = n
	}

	return &cp
}

// chunkSize is the configured chunk size, lowered if needed so an encoded
// message fits the server's max_payload.
func (p *NATSPublisher) chunkSize() int {
	n := p.chunkBytes

	if pl, ok := p.conn.(payloadLimiter); ok {
		if limit := pl.MaxPayload(); limit > envelopeBytes {
			// base64 turns 3 bytes into 4.
			n = min(n, int(limit-envelopeBytes)/4*3)
		}
	}

	return max(n, 1)
}

// Play publishes buf and waits until the server has acknowledged it.
func (p *NATSPublisher) Play(ctx context.Context, buf *pcm.Buffer) error {
	if buf == nil {
		return errors.New("playback: nil buffer")
	}

	image, err := wavio.EncodeBytes(buf)
	if err != nil {
		return err
	}

	size := p.chunkSize()
	chunks := max((len(image)+size-1)/size, 1)

	msg := AudioMessage{
		StreamID:    nuid.Next(),
		Chunks:      chunks,
		AudioFormat: "wav",
		SampleRate:  buf.SampleRate(),
		Samples:     buf.Len(),
		DurationMs:  buf.Duration().Milliseconds(),
		Label:       p.label,
	}

	sent := 0

	for seq := range chunks {
		part := image[seq*size:]
		if len(part) > size {
			part = part[:size]
		}

		msg.Sequence = seq
		msg.IsFinal = seq == chunks-1
		msg.AudioData = part

		data, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("playback: marshal message: %w", err)
		}

		if err := p.conn.Publish(p.subject, data); err != nil {
			return fmt.Errorf("playback: publish chunk %d/%d to %s: %w", seq+1, chunks, p.subject, err)
		}

		sent += len(data)
	}

	flushCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.conn.FlushWithContext(flushCtx); err != nil {
		return fmt.Errorf("playback: flush %s: %w", p.subject, err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "Play",
		"subject":   p.subject,
		"stream_id": msg.StreamID,
		"chunks":    chunks,
		"bytes":     sent,
	}).Info("Audio published")

	return nil
}

// Close closes the connection.
func (p *NATSPublisher) Close() {
	p.conn.Close()
}
