package delay

import "github.com/cwbudde/algo-voicefx/dsp/pcm"

const (
	echoDelayMs   = 300.0
	echoGainDB    = -10.0
	echoFadeInMs  = 50.0
	echoFadeOutMs = 150.0
)

// EchoNetwork returns the single-tap echo: one copy 300 ms later at -10 dB,
// with a 50 ms fade-in and 150 ms fade-out on the whole result.
func EchoNetwork() Network {
	return Network{
		Taps:     []Tap{{DelayMs: echoDelayMs, GainDB: echoGainDB}},
		Envelope: Fade{InMs: echoFadeInMs, OutMs: echoFadeOutMs},
	}
}

// Echo applies EchoNetwork to sig.
func Echo(sig pcm.Signal) (pcm.Signal, error) {
	return EchoNetwork().Apply(sig)
}
