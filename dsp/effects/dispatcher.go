package effects

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-voicefx/dsp/pcm"
)

// Dispatcher applies effect requests. It is immutable after construction
// and safe for concurrent use, provided any StageHook is.
type Dispatcher struct {
	cfg config
}

// NewDispatcher returns a Dispatcher configured by opts.
func NewDispatcher(opts ...Option) *Dispatcher {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Dispatcher{cfg: cfg}
}

// Apply validates req and runs the selected transform on buf. On error the
// returned buffer is nil; buf is never modified.
func (d *Dispatcher) Apply(buf *pcm.Buffer, req Request) (*pcm.Buffer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if buf == nil {
		return nil, errors.New("effects: nil buffer")
	}

	out, err := d.ApplySignal(buf.Signal(), req)
	if err != nil {
		return nil, err
	}

	return out.Buffer()
}

// ApplySignal is Apply on the float working form, without quantization.
func (d *Dispatcher) ApplySignal(sig pcm.Signal, req Request) (pcm.Signal, error) {
	if err := req.Validate(); err != nil {
		return pcm.Signal{}, err
	}

	fn, ok := transforms[req.Kind]
	if !ok {
		return pcm.Signal{}, fmt.Errorf("%w: %v", ErrUnsupportedFilter, req.Kind)
	}

	cfg := d.cfg

	out, err := fn(sig, req, &cfg)
	if err != nil {
		return pcm.Signal{}, fmt.Errorf("%s: %w", req.Kind, err)
	}

	return out, nil
}

// Apply runs req on buf with a one-off Dispatcher.
func Apply(buf *pcm.Buffer, req Request, opts ...Option) (*pcm.Buffer, error) {
	return NewDispatcher(opts...).Apply(buf, req)
}
