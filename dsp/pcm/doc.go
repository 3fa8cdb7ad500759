// Package pcm provides the mono 16-bit sample container shared by every
// voice effect, plus the float64 working form the kernels compute in.
//
// A Buffer is immutable by convention: transforms read it and return a new
// Buffer, they never write through Samples(). Stereo or multi-channel input
// is reduced to mono by keeping the first channel only.
package pcm
