// Package biquad implements a second-order IIR section in Direct Form II
// Transposed.
package biquad
