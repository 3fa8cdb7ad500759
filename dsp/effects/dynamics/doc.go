// Package dynamics provides the level-shaping stages used by the voice
// effects: linear and dB gain, a Butterworth low-pass, and a hard-knee
// downward compressor.
//
// Signals are in int16 units; the compressor measures level relative to
// full scale (32767).
package dynamics
