package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

const (
	defaultCompressorThresholdDB = -20.0
	defaultCompressorRatio       = 4.0
	defaultCompressorAttackMs    = 5.0
	defaultCompressorReleaseMs   = 50.0

	minCompressorRatio     = 1.0
	maxCompressorRatio     = 100.0
	minCompressorAttackMs  = 0.1
	maxCompressorAttackMs  = 1000.0
	minCompressorReleaseMs = 1.0
	maxCompressorReleaseMs = 5000.0

	// log2(10) / 20
	log2Of10Div20 = 0.166096404744

	fullScale = float64(core.Int16Max)
)

// Compressor is a hard-knee peak compressor without makeup gain, so its
// gain never exceeds 1. It is mono and not safe for concurrent use.
type Compressor struct {
	thresholdDB float64
	ratio       float64
	attackMs    float64
	releaseMs   float64
	sampleRate  float64

	peakLevel float64

	attackCoeff   float64
	releaseCoeff  float64
	thresholdLog2 float64
}

// NewCompressor creates a compressor with threshold -20 dBFS, ratio 4:1,
// attack 5 ms and release 50 ms.
func NewCompressor(sampleRate float64) (*Compressor, error) {
	if err := core.ValidateFinite("compressor sample rate", sampleRate); err != nil {
		return nil, err
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: compressor sample rate must be > 0: %g", core.ErrInvalidParameter, sampleRate)
	}

	c := &Compressor{
		thresholdDB: defaultCompressorThresholdDB,
		ratio:       defaultCompressorRatio,
		attackMs:    defaultCompressorAttackMs,
		releaseMs:   defaultCompressorReleaseMs,
		sampleRate:  sampleRate,
	}

	c.updateCoefficients()

	return c, nil
}

// SetThreshold sets the threshold in dB relative to full scale.
func (c *Compressor) SetThreshold(dB float64) error {
	if err := core.ValidateFinite("compressor threshold", dB); err != nil {
		return err
	}

	c.thresholdDB = dB
	c.updateCoefficients()

	return nil
}

// SetRatio sets the compression ratio in [1, 100].
func (c *Compressor) SetRatio(ratio float64) error {
	if err := core.ValidateRange("compressor ratio", ratio, minCompressorRatio, maxCompressorRatio); err != nil {
		return err
	}

	c.ratio = ratio

	return nil
}

// SetAttack sets attack time in milliseconds.
func (c *Compressor) SetAttack(ms float64) error {
	if err := core.ValidateRange("compressor attack (ms)", ms, minCompressorAttackMs, maxCompressorAttackMs); err != nil {
		return err
	}

	c.attackMs = ms
	c.updateCoefficients()

	return nil
}

// SetRelease sets release time in milliseconds.
func (c *Compressor) SetRelease(ms float64) error {
	if err := core.ValidateRange("compressor release (ms)", ms, minCompressorReleaseMs, maxCompressorReleaseMs); err != nil {
		return err
	}

	c.releaseMs = ms
	c.updateCoefficients()

	return nil
}

// Threshold returns the current threshold in dBFS.
func (c *Compressor) Threshold() float64 { return c.thresholdDB }

// Ratio returns the current compression ratio.
func (c *Compressor) Ratio() float64 { return c.ratio }

// Attack returns the current attack time in milliseconds.
func (c *Compressor) Attack() float64 { return c.attackMs }

// Release returns the current release time in milliseconds.
func (c *Compressor) Release() float64 { return c.releaseMs }

// ProcessSample processes one sample given in int16 units.
func (c *Compressor) ProcessSample(input float64) float64 {
	level := math.Abs(input) / fullScale

	if level > c.peakLevel {
		c.peakLevel += (level - c.peakLevel) * c.attackCoeff
	} else {
		c.peakLevel = level + (c.peakLevel-level)*c.releaseCoeff
	}

	return input * c.gain(c.peakLevel)
}

// ProcessInPlace applies compression to buf in place.
func (c *Compressor) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = c.ProcessSample(buf[i])
	}
}

// CalculateOutputLevel returns the steady-state output magnitude for a
// constant input magnitude in int16 units.
func (c *Compressor) CalculateOutputLevel(inputMagnitude float64) float64 {
	inputMagnitude = math.Abs(inputMagnitude)
	return inputMagnitude * c.gain(inputMagnitude/fullScale)
}

// Reset clears the envelope follower.
func (c *Compressor) Reset() {
	c.peakLevel = 0
}

func (c *Compressor) updateCoefficients() {
	c.thresholdLog2 = c.thresholdDB * log2Of10Div20
	c.attackCoeff = 1.0 - math.Exp(-math.Ln2/(c.attackMs*0.001*c.sampleRate))
	c.releaseCoeff = math.Exp(-math.Ln2 / (c.releaseMs * 0.001 * c.sampleRate))
}

func (c *Compressor) gain(level float64) float64 {
	if level <= 0 {
		return 1.0
	}

	overshoot := math.Log2(level) - c.thresholdLog2
	if overshoot <= 0 {
		return 1.0
	}

	return math.Exp2(-overshoot * (1.0 - 1.0/c.ratio))
}

// Compress runs sig through a fresh default Compressor at sig's rate.
func Compress(sig pcm.Signal) (pcm.Signal, error) {
	c, err := NewCompressor(float64(sig.Rate))
	if err != nil {
		return pcm.Signal{}, err
	}

	out := sig.Clone()
	c.ProcessInPlace(out.Samples)

	return out, nil
}
