package playback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/wavio"
)

type fakeStream struct {
	buf      []int16
	writes   [][]int16
	writeErr error
	started  bool
	stopped  bool
	closed   bool
	onWrite  func()
}

func (f *fakeStream) Start() error {
	f.started = true
	return nil
}

func (f *fakeStream) Stop() error {
	f.stopped = true
	return nil
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func (f *fakeStream) Write() error {
	if f.writeErr != nil {
		return f.writeErr
	}

	f.writes = append(f.writes, append([]int16(nil), f.buf...))
	if f.onWrite != nil {
		f.onWrite()
	}

	return nil
}

func newFakePlayer(opts ...PortAudioOption) (*PortAudioPlayer, *fakeStream, *float64) {
	fs := &fakeStream{}
	rate := new(float64)

	p := NewPortAudioPlayer(opts...)
	p.open = func(sampleRate float64, buf []int16) (outputStream, error) {
		*rate = sampleRate
		fs.buf = buf

		return fs, nil
	}

	return p, fs, rate
}

func TestPortAudioPlayerChunks(t *testing.T) {
	var progress [][2]int

	p, fs, rate := newFakePlayer(
		WithChunkSize(4),
		WithProgress(func(played, total int) { progress = append(progress, [2]int{played, total}) }),
	)

	buf, err := pcm.New([]int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 8000)
	require.NoError(t, err)

	require.NoError(t, p.Play(context.Background(), buf))

	assert.InDelta(t, 8000, *rate, 0)
	assert.Equal(t, [][]int16{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 0, 0}}, fs.writes)
	assert.Equal(t, [][2]int{{4, 10}, {8, 10}, {10, 10}}, progress)
	assert.True(t, fs.started)
	assert.True(t, fs.stopped)
	assert.True(t, fs.closed)
}

func TestPortAudioPlayerDefaultChunk(t *testing.T) {
	p, fs, _ := newFakePlayer()

	buf, err := pcm.Silence(5000, 44100)
	require.NoError(t, err)

	require.NoError(t, p.Play(context.Background(), buf))

	require.Len(t, fs.writes, 3)
	assert.Len(t, fs.writes[0], 2048)
}

func TestPortAudioPlayerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, fs, _ := newFakePlayer(WithChunkSize(2))
	fs.onWrite = cancel

	buf, err := pcm.New([]int16{1, 2, 3, 4, 5, 6}, 8000)
	require.NoError(t, err)

	err = p.Play(ctx, buf)
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fs.writes, 1)
	assert.True(t, fs.closed)
}

func TestPortAudioPlayerErrors(t *testing.T) {
	p, fs, _ := newFakePlayer()
	fs.writeErr = errors.New("underflow")

	buf, err := pcm.New([]int16{1}, 8000)
	require.NoError(t, err)

	assert.ErrorContains(t, p.Play(context.Background(), buf), "underflow")
	assert.True(t, fs.closed)

	p.open = func(float64, []int16) (outputStream, error) { return nil, errors.New("no device") }
	assert.ErrorContains(t, p.Play(context.Background(), buf), "no device")

	assert.Error(t, p.Play(context.Background(), nil))
}

type fakeConn struct {
	subject    string
	data       []byte
	published  [][]byte
	maxPayload int64
	publishErr error
	flushErr   error
	deadline   bool
	closed     bool
}

func (c *fakeConn) Publish(subject string, data []byte) error {
	if c.publishErr != nil {
		return c.publishErr
	}

	c.subject = subject
	c.data = data
	c.published = append(c.published, data)

	return nil
}

func (c *fakeConn) MaxPayload() int64 { return c.maxPayload }

// reassemble decodes the messages of one stream back into a buffer.
func reassemble(t *testing.T, published [][]byte) (*pcm.Buffer, []AudioMessage) {
	t.Helper()

	var (
		image []byte
		msgs  []AudioMessage
	)

	for i, data := range published {
		var msg AudioMessage
		require.NoError(t, json.Unmarshal(data, &msg))

		require.Equal(t, i, msg.Sequence)
		require.Equal(t, len(published), msg.Chunks)
		require.Equal(t, i == len(published)-1, msg.IsFinal)

		if i > 0 {
			require.Equal(t, msgs[0].StreamID, msg.StreamID)
		}

		image = append(image, msg.AudioData...)
		msgs = append(msgs, msg)
	}

	buf, err := wavio.DecodeReader(bytes.NewReader(image), msgs[0].StreamID)
	require.NoError(t, err)

	return buf, msgs
}

func (c *fakeConn) FlushWithContext(ctx context.Context) error {
	_, c.deadline = ctx.Deadline()
	return c.flushErr
}

func (c *fakeConn) Close() { c.closed = true }

func TestNATSPublisherMessage(t *testing.T) {
	conn := &fakeConn{}
	pub := NewNATSPublisher(conn, "voicefx.playback", time.Second).WithLabel("echo")

	buf, err := pcm.New([]int16{0, 100, -100, 32767}, 44100)
	require.NoError(t, err)

	require.NoError(t, pub.Play(context.Background(), buf))

	assert.Equal(t, "voicefx.playback", conn.subject)
	assert.True(t, conn.deadline)

	var msg AudioMessage
	require.NoError(t, json.Unmarshal(conn.data, &msg))

	assert.NotEmpty(t, msg.StreamID)
	assert.Len(t, conn.published, 1)
	assert.Equal(t, 0, msg.Sequence)
	assert.Equal(t, 1, msg.Chunks)
	assert.True(t, msg.IsFinal)
	assert.Equal(t, "wav", msg.AudioFormat)
	assert.Equal(t, 44100, msg.SampleRate)
	assert.Equal(t, 4, msg.Samples)
	assert.Equal(t, "echo", msg.Label)

	back, err := wavio.DecodeReader(bytes.NewReader(msg.AudioData), msg.StreamID)
	require.NoError(t, err)
	assert.True(t, back.Equal(buf))

	pub.Close()
	assert.True(t, conn.closed)
}

func TestNATSPublisherChunksLongRecordings(t *testing.T) {
	// Ten seconds at 44.1 kHz is an 882 KB image, over 1 MB once base64
	// encoded.
	samples := make([]int16, 10*44100)
	for i := range samples {
		samples[i] = int16(i)
	}

	buf, err := pcm.New(samples, 44100)
	require.NoError(t, err)

	t.Run("default size", func(t *testing.T) {
		conn := &fakeConn{}
		require.NoError(t, NewNATSPublisher(conn, "s", 0).Play(context.Background(), buf))

		require.Len(t, conn.published, 2)

		for _, data := range conn.published {
			assert.Less(t, len(data), 1<<20)
		}

		back, msgs := reassemble(t, conn.published)
		assert.True(t, back.Equal(buf))
		assert.Equal(t, len(samples), msgs[1].Samples)
		assert.Equal(t, int64(10000), msgs[1].DurationMs)
	})

	t.Run("server limit", func(t *testing.T) {
		conn := &fakeConn{maxPayload: 64 << 10}
		require.NoError(t, NewNATSPublisher(conn, "s", 0).Play(context.Background(), buf))

		assert.Greater(t, len(conn.published), 10)

		for _, data := range conn.published {
			assert.LessOrEqual(t, len(data), 64<<10)
		}

		back, _ := reassemble(t, conn.published)
		assert.True(t, back.Equal(buf))
	})
}

func TestNATSPublisherChunkBytes(t *testing.T) {
	buf, err := pcm.New(make([]int16, 1000), 8000)
	require.NoError(t, err)

	image, err := wavio.EncodeBytes(buf)
	require.NoError(t, err)

	conn := &fakeConn{}
	pub := NewNATSPublisher(conn, "s", 0).WithChunkBytes(500)
	require.NoError(t, pub.Play(context.Background(), buf))

	chunks := (len(image) + 499) / 500
	require.Len(t, conn.published, chunks)

	back, msgs := reassemble(t, conn.published)
	assert.True(t, back.Equal(buf))

	for _, msg := range msgs[:chunks-1] {
		assert.Len(t, msg.AudioData, 500)
	}

	assert.Len(t, msgs[chunks-1].AudioData, len(image)-500*(chunks-1))

	// Non-positive sizes keep the previous setting.
	assert.Equal(t, 500, pub.WithChunkBytes(0).chunkBytes)
}

func TestNATSPublisherUniqueStreamIDs(t *testing.T) {
	conn := &fakeConn{}
	pub := NewNATSPublisher(conn, "s", 0)

	buf, err := pcm.New([]int16{1}, 8000)
	require.NoError(t, err)

	ids := map[string]bool{}

	for range 3 {
		require.NoError(t, pub.Play(context.Background(), buf))

		var msg AudioMessage
		require.NoError(t, json.Unmarshal(conn.data, &msg))
		ids[msg.StreamID] = true
	}

	assert.Len(t, ids, 3)
}

func TestNATSPublisherErrors(t *testing.T) {
	buf, err := pcm.New([]int16{1}, 8000)
	require.NoError(t, err)

	pub := NewNATSPublisher(&fakeConn{publishErr: errors.New("disconnected")}, "s", 0)
	assert.ErrorContains(t, pub.Play(context.Background(), buf), "disconnected")

	pub = NewNATSPublisher(&fakeConn{flushErr: context.DeadlineExceeded}, "s", 0)
	assert.ErrorIs(t, pub.Play(context.Background(), buf), context.DeadlineExceeded)

	assert.Error(t, pub.Play(context.Background(), nil))
}

func TestDiscard(t *testing.T) {
	buf, err := pcm.New([]int16{1, 2}, 8000)
	require.NoError(t, err)

	var p Player = Discard{}
	assert.NoError(t, p.Play(context.Background(), buf))
}
