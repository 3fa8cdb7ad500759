// Package resample implements the speed-coupled pitch change behind the High
// Pitch, Robot, Bass Boost and Custom voice effects.
//
// The change itself is a reinterpretation: the samples stay untouched and
// only the declared sample rate moves, new_rate = round(rate * factor). The
// reinterpreted signal is then normalized back to a playback rate with an
// offline polyphase windowed-sinc converter, which makes the pitch and
// duration change audible at the original rate.
//
// Common workflows:
//   - Reinterpret(sig, factor)
//   - ChangeSpeed(sig, factor, targetRate, opts...)
//   - ShiftOctaves(sig, octaves, targetRate, opts...)
//   - Convert(sig, targetRate, opts...)
//
// Quality modes trade CPU for stopband attenuation:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
