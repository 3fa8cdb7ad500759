package capture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-voicefx/dsp/window"
)

func TestScopeRejectsBadFFTSize(t *testing.T) {
	for _, n := range []int{0, 1, 3, 1000} {
		_, err := NewScope(nil, WithFFTSize(n))
		assert.Error(t, err, "size %d", n)
	}
}

func TestScopeFrameLevels(t *testing.T) {
	const (
		size = 256
		bin  = 16
		amp  = 16384
	)

	sc, err := NewScope(nil, WithFFTSize(size))
	require.NoError(t, err)

	snap := make([]int16, size)
	for i := range snap {
		snap[i] = int16(math.Round(amp * math.Sin(2*math.Pi*bin*float64(i)/size)))
	}

	f, err := sc.frame(snap, 99)
	require.NoError(t, err)

	assert.Equal(t, uint64(99), f.Written)
	assert.InDelta(t, amp, f.Peak, 1)
	assert.InDelta(t, amp/math.Sqrt2, f.RMS, 2)
	require.Len(t, f.SpectrumDB, size/2+1)

	best := 0
	for i, db := range f.SpectrumDB {
		if db > f.SpectrumDB[best] {
			best = i
		}
	}

	assert.Equal(t, bin, best)
	assert.InDelta(t, 20*math.Log10(amp/32767.0), f.SpectrumDB[bin], 0.1)
	assert.Less(t, f.SpectrumDB[size/2-8], -80.0)
}

func TestScopeWindowKeepsSineLevel(t *testing.T) {
	const (
		size = 512
		bin  = 40
		amp  = 8000
	)

	snap := make([]int16, size)
	for i := range snap {
		snap[i] = int16(math.Round(amp * math.Sin(2*math.Pi*bin*float64(i)/size)))
	}

	for _, typ := range []window.Type{window.TypeRectangular, window.TypeHamming, window.TypeBlackman} {
		t.Run(typ.String(), func(t *testing.T) {
			sc, err := NewScope(nil, WithFFTSize(size), WithWindow(typ))
			require.NoError(t, err)
			assert.Equal(t, typ, sc.cfg.window)

			f, err := sc.frame(snap, size)
			require.NoError(t, err)

			assert.InDelta(t, 20*math.Log10(amp/32767.0), f.SpectrumDB[bin], 0.1)
		})
	}
}

func TestScopeSilenceHitsFloor(t *testing.T) {
	sc, err := NewScope(nil, WithFFTSize(64))
	require.NoError(t, err)

	f, err := sc.frame(make([]int16, 10), 10)
	require.NoError(t, err)

	assert.Zero(t, f.Peak)
	for _, db := range f.SpectrumDB {
		assert.InDelta(t, spectrumFloorDB, db, 0)
	}
}

func TestScopePublishDropsOldest(t *testing.T) {
	sc, err := NewScope(nil, WithFFTSize(64), WithFrameBuffer(2))
	require.NoError(t, err)

	for i := range 5 {
		sc.publish(Frame{Written: uint64(i)})
	}

	assert.Equal(t, uint64(3), sc.Dropped())
	assert.Equal(t, uint64(3), (<-sc.Frames()).Written)
	assert.Equal(t, uint64(4), (<-sc.Frames()).Written)
}
