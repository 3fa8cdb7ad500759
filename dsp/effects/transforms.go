package effects

import (
	"github.com/cwbudde/algo-voicefx/dsp/core"
	"github.com/cwbudde/algo-voicefx/dsp/delay"
	"github.com/cwbudde/algo-voicefx/dsp/effects/dynamics"
	"github.com/cwbudde/algo-voicefx/dsp/effects/modulation"
	"github.com/cwbudde/algo-voicefx/dsp/pcm"
	"github.com/cwbudde/algo-voicefx/dsp/resample"
)

const (
	robotOctaves     = -0.5
	highPitchOctaves = 0.5

	bassBoostSlowdown = 1.2
	bassBoostCutoffHz = 150.0
	bassBoostGain     = 1.5
)

type transform func(sig pcm.Signal, req Request, cfg *config) (pcm.Signal, error)

var transforms = map[Kind]transform{
	KindRobot:     robot,
	KindEcho:      echo,
	KindHighPitch: highPitch,
	KindReverb:    reverb,
	KindBassBoost: bassBoost,
	KindCustom:    custom,
}

func robot(sig pcm.Signal, _ Request, cfg *config) (pcm.Signal, error) {
	low, err := resample.ShiftOctaves(sig, robotOctaves, cfg.target(sig), cfg.resampleOps...)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("pitch", low)

	mod, err := modulation.Tremolo(low)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("modulate", mod)

	norm := modulation.Normalize(mod, core.Int16Max)
	cfg.stage("normalize", norm)

	out, err := dynamics.Compress(norm)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("compress", out)

	return out, nil
}

func echo(sig pcm.Signal, _ Request, cfg *config) (pcm.Signal, error) {
	wet, err := delay.Echo(sig)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("echo", wet)

	return toTarget(wet, sig, cfg)
}

func highPitch(sig pcm.Signal, _ Request, cfg *config) (pcm.Signal, error) {
	out, err := resample.ShiftOctaves(sig, highPitchOctaves, cfg.target(sig), cfg.resampleOps...)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("pitch", out)

	return out, nil
}

func reverb(sig pcm.Signal, _ Request, cfg *config) (pcm.Signal, error) {
	wet, err := delay.ReverbWith(sig, cfg.reverb)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("reverb", wet)

	return toTarget(wet, sig, cfg)
}

func bassBoost(sig pcm.Signal, _ Request, cfg *config) (pcm.Signal, error) {
	slow, err := resample.Reinterpret(sig, 1/bassBoostSlowdown)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("reinterpret", slow)

	filtered, err := dynamics.LowPass(slow, bassBoostCutoffHz)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("lowpass", filtered)

	boosted, err := dynamics.Scale(filtered, bassBoostGain)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("gain", boosted)

	return toTarget(boosted, sig, cfg)
}

func custom(sig pcm.Signal, req Request, cfg *config) (pcm.Signal, error) {
	fast, err := resample.ChangeSpeed(sig, req.SpeedFactor(), cfg.target(sig), cfg.resampleOps...)
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("speed", fast)

	loud, err := dynamics.Gain(fast, req.VolumeDB())
	if err != nil {
		return pcm.Signal{}, err
	}

	cfg.stage("volume", loud)

	if !req.Reverse {
		return loud, nil
	}

	out := loud.Reversed()
	cfg.stage("reverse", out)

	return out, nil
}

// toTarget converts out to the playback rate chosen for the original input.
func toTarget(out, in pcm.Signal, cfg *config) (pcm.Signal, error) {
	conv, err := resample.Convert(out, cfg.target(in), cfg.resampleOps...)
	if err != nil {
		return pcm.Signal{}, err
	}

	if conv.Rate != out.Rate {
		cfg.stage("convert", conv)
	}

	return conv, nil
}
