// Package capture records mono audio from an input device.
//
// A Session is a two-state machine, Idle and Recording. While recording,
// the device callback copies every delivered block into a preallocated
// accumulation arena and into a fixed-capacity Ring used for live display.
// The callback never blocks, allocates only from slabs prepared ahead of time
// by a refill goroutine, and converts internal faults into a dropped-sample
// count.
//
// Stop closes the device stream, waits until no callback is in flight,
// and only then reads the accumulation and encodes it to a WAV file.
//
// A Scope consumes the ring on a separate goroutine. It wakes on the
// session's data-ready signal and publishes level and spectrum frames on a
// bounded channel, dropping the oldest frame when the consumer lags.
package capture
