// Package playback hands finished buffers to something that plays them:
// the default output device through PortAudio, or a remote player that
// listens on a NATS subject.
package playback
