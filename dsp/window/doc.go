// Package window generates the cosine-sum analysis windows used before a
// short-time FFT: rectangular, Hann, Hamming and Blackman, in symmetric or
// periodic form.
package window
