package wavio

import (
	"errors"
	"io"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// EncodeBytes returns buf as a complete WAV file image.
func EncodeBytes(buf *pcm.Buffer) ([]byte, error) {
	var ws memWriteSeeker
	if err := EncodeWriter(buf, &ws); err != nil {
		return nil, &EncodeError{Err: err}
	}

	return ws.buf, nil
}

// memWriteSeeker is the in-memory target the WAV encoder needs to patch
// its header after the data is written.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	if end := m.pos + len(p); end > len(m.buf) {
		if end > cap(m.buf) {
			grown := make([]byte, end, max(2*cap(m.buf), end))
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}

	n := copy(m.buf[m.pos:], p)
	m.pos += n

	return n, nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int64

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(m.pos)
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, errors.New("wavio: invalid whence")
	}

	next := base + offset
	if next < 0 {
		return 0, errors.New("wavio: negative position")
	}

	m.pos = int(next)

	return next, nil
}
