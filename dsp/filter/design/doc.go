// Package design computes biquad coefficients from filter specifications.
package design
