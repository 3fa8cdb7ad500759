// Package core holds the numeric helpers shared by the voice effect kernels:
// dB/linear conversion, clamping, millisecond-to-sample conversion, int16
// quantization and the ErrInvalidParameter sentinel.
package core
