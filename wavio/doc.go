// Package wavio decodes and encodes mono 16-bit PCM WAV files.
//
// Decoding accepts 8, 16, 24 and 32-bit integer PCM with any channel count;
// samples are reduced to 16 bits and only the first channel is kept. Encoding
// always writes 16-bit mono and goes through a temporary file that is renamed
// into place, so a failed write never leaves partial output.
package wavio
