package wavio

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

const (
	bitDepth      = 16
	monoChannels  = 1
	wavFormatPCM  = 1
	tempPrefix    = ".voicefx-"
	tempExtension = ".wav.tmp"
)

// Encode writes buf to path as 16-bit mono PCM. The data goes to a temporary
// file in the same directory first and is renamed over path on success.
func Encode(buf *pcm.Buffer, path string) error {
	if buf == nil {
		return &EncodeError{Path: path, Err: errors.New("nil buffer")}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), tempPrefix+"*"+tempExtension)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}

	tmpName := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if err := EncodeWriter(buf, tmp); err != nil {
		_ = tmp.Close()
		cleanup()

		return &EncodeError{Path: path, Err: err}
	}

	if err := tmp.Close(); err != nil {
		cleanup()
		return &EncodeError{Path: path, Err: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &EncodeError{Path: path, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Encode",
		"path":        path,
		"sample_rate": buf.SampleRate(),
		"samples":     buf.Len(),
	}).Debug("Encoded WAV")

	return nil
}

// EncodeWriter writes buf as a complete WAV stream to ws.
func EncodeWriter(buf *pcm.Buffer, ws io.WriteSeeker) error {
	if buf == nil {
		return errors.New("nil buffer")
	}

	src := buf.Samples()
	data := make([]int, len(src))

	for i, s := range src {
		data[i] = int(s)
	}

	enc := wav.NewEncoder(ws, buf.SampleRate(), bitDepth, monoChannels, wavFormatPCM)

	ib := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: monoChannels,
			SampleRate:  buf.SampleRate(),
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(ib); err != nil {
		return err
	}

	return enc.Close()
}
