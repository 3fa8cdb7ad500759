package capture

// Callback receives one block of mono int16 frames. The slice belongs to
// the driver and is reused after the callback returns.
type Callback func(in []int16)

// Backend opens input streams on an audio device.
type Backend interface {
	// DefaultSampleRate reports the default input device's native rate.
	DefaultSampleRate() (float64, error)

	// OpenInput opens a mono input stream that calls cb for every block of
	// framesPerBlock frames once started.
	OpenInput(sampleRate float64, framesPerBlock int, cb Callback) (Stream, error)
}

// Stream is an opened device stream. Stop must not return while a callback
// is still running.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}
