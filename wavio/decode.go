package wavio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

var errNotWAV = errors.New("not a RIFF/WAVE file")

// Decode reads the WAV file at path.
func Decode(path string) (*pcm.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	return DecodeReader(f, path)
}

// DecodeReader reads a WAV stream. name is used in errors and logs only.
func DecodeReader(r io.ReadSeeker, name string) (*pcm.Buffer, error) {
	d := wav.NewDecoder(r)

	// IsValidFile rejects zero-length data chunks, which are valid here.
	d.ReadInfo()

	if err := d.Err(); err != nil {
		return nil, &DecodeError{Path: name, Err: fmt.Errorf("%w: %w", errNotWAV, err)}
	}

	if d.NumChans < 1 || d.BitDepth < 8 {
		return nil, &DecodeError{Path: name, Err: errNotWAV}
	}

	if d.WavAudioFormat != formatPCM && d.WavAudioFormat != formatExtensible {
		return nil, &DecodeError{Path: name, Err: fmt.Errorf("unsupported audio format %d", d.WavAudioFormat)}
	}

	ib, err := d.FullPCMBuffer()
	if err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}

	channels := int(d.NumChans)
	if channels < 1 {
		return nil, &DecodeError{Path: name, Err: fmt.Errorf("invalid channel count %d", channels)}
	}

	to16, err := sampleConverter(int(d.BitDepth))
	if err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}

	frames := len(ib.Data) / channels
	samples := make([]int16, frames)

	for i := range samples {
		samples[i] = to16(ib.Data[i*channels])
	}

	buf, err := pcm.New(samples, int(d.SampleRate))
	if err != nil {
		return nil, &DecodeError{Path: name, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"function":    "DecodeReader",
		"path":        name,
		"sample_rate": d.SampleRate,
		"channels":    channels,
		"bit_depth":   d.BitDepth,
		"frames":      frames,
	}).Debug("Decoded WAV")

	return buf, nil
}

// sampleConverter maps a decoded integer sample of the given depth onto the
// int16 range. 8-bit WAV data is unsigned with a 128 midpoint.
func sampleConverter(bitDepth int) (func(int) int16, error) {
	switch bitDepth {
	case 8:
		return func(v int) int16 { return int16((v - 128) << 8) }, nil
	case 16:
		return func(v int) int16 { return int16(v) }, nil
	case 24:
		return func(v int) int16 { return int16(v >> 8) }, nil
	case 32:
		return func(v int) int16 { return int16(v >> 16) }, nil
	default:
		return nil, fmt.Errorf("unsupported bit depth %d", bitDepth)
	}
}
