package capture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

// PortAudioBackend opens streams on the default PortAudio input device.
type PortAudioBackend struct {
	mu          sync.Mutex
	initialized bool
}

// NewPortAudioBackend creates a backend. Call Initialize before use and
// Terminate when done.
func NewPortAudioBackend() *PortAudioBackend {
	return &PortAudioBackend{}
}

// Initialize initializes the PortAudio subsystem.
func (p *PortAudioBackend) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	p.initialized = true

	return nil
}

// Terminate terminates the PortAudio subsystem.
func (p *PortAudioBackend) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}

	p.initialized = false

	return portaudio.Terminate()
}

func (p *PortAudioBackend) ready() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return errors.New("PortAudio not initialized")
	}

	return nil
}

// DefaultSampleRate reports the default input device's sample rate.
func (p *PortAudioBackend) DefaultSampleRate() (float64, error) {
	if err := p.ready(); err != nil {
		return 0, err
	}

	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return 0, fmt.Errorf("failed to query default input device: %w", err)
	}

	return dev.DefaultSampleRate, nil
}

// OpenInput opens a mono int16 callback stream on the default input device.
func (p *PortAudioBackend) OpenInput(sampleRate float64, framesPerBlock int, cb Callback) (Stream, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, framesPerBlock, func(in []int16) {
		cb(in)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open input stream: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":         "OpenInput",
		"sample_rate":      sampleRate,
		"frames_per_block": framesPerBlock,
	}).Debug("Opened PortAudio input stream")

	return stream, nil
}

// DeviceInfo describes one audio device.
type DeviceInfo struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	DefaultInput      bool
	DefaultOutput     bool
}

// Devices lists all devices known to PortAudio.
func (p *PortAudioBackend) Devices() ([]DeviceInfo, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	defIn, _ := portaudio.DefaultInputDevice()
	defOut, _ := portaudio.DefaultOutputDevice()

	out := make([]DeviceInfo, 0, len(devs))

	for _, d := range devs {
		info := DeviceInfo{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			DefaultInput:      defIn != nil && d.Name == defIn.Name,
			DefaultOutput:     defOut != nil && d.Name == defOut.Name,
		}

		if d.HostApi != nil {
			info.HostAPI = d.HostApi.Name
		}

		out = append(out, info)
	}

	return out, nil
}
