// Package effects maps the closed catalog of voice effects onto pure
// transforms and dispatches requests through a lookup table.
//
// Catalog:
//   - Robot: pitch down half an octave, 50 Hz unipolar tremolo, normalize to
//     full scale, compress.
//   - Echo: one tap at 300 ms, -10 dB.
//   - High Pitch: pitch up half an octave.
//   - Reverb: ten decaying taps between 20 ms and 150 ms.
//   - Bass Boost: slow down by 1.2, low-pass at 150 Hz, gain x1.5.
//   - Custom: speed, then volume, then optional reversal.
//
// Every transform returns a new buffer. A failed dispatch returns an error and
// no audio; input is never passed through on failure.
package effects
