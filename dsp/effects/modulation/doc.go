// Package modulation provides amplitude modulation with a unipolar sine
// carrier and peak normalization.
package modulation
