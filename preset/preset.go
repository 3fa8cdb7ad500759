package preset

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/cwbudde/algo-voicefx/dsp/effects"
)

var (
	// ErrNotFound is returned when a named preset does not exist.
	ErrNotFound = errors.New("preset not found")
	// ErrInvalidName is returned for empty or blank preset names.
	ErrInvalidName = errors.New("invalid preset name")
)

// Preset is one saved set of Custom controls, each in [0, 100].
type Preset struct {
	Speed   int  `yaml:"speed"`
	Volume  int  `yaml:"volume"`
	Reverse bool `yaml:"reverse"`
}

// Request returns the Custom effect request for p.
func (p Preset) Request() effects.Request {
	return effects.Custom(p.Speed, p.Volume, p.Reverse)
}

// FromSliders builds a preset from three 0..100 controls, the same way
// effects.CustomFromSliders reads them.
func FromSliders(speed, volume, reverse int) Preset {
	req := effects.CustomFromSliders(speed, volume, reverse)
	return Preset{Speed: req.Speed, Volume: req.Volume, Reverse: req.Reverse}
}

// Validate checks the control ranges.
func (p Preset) Validate() error {
	return p.Request().Validate()
}

// Store loads and saves the complete name-to-preset mapping.
type Store interface {
	Load() (map[string]Preset, error)
	Save(presets map[string]Preset) error
}

// Names returns the preset names in sorted order.
func Names(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Get loads the mapping from s and returns the preset called name.
func Get(s Store, name string) (Preset, error) {
	presets, err := s.Load()
	if err != nil {
		return Preset{}, err
	}

	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return p, nil
}

// Put validates p and stores it under name, replacing any existing entry.
func Put(s Store, name string, p Preset) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}

	if err := p.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}

	presets, err := s.Load()
	if err != nil {
		return err
	}

	if presets == nil {
		presets = make(map[string]Preset)
	}

	presets[name] = p

	return s.Save(presets)
}

// Delete removes name from s.
func Delete(s Store, name string) error {
	presets, err := s.Load()
	if err != nil {
		return err
	}

	if _, ok := presets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	delete(presets, name)

	return s.Save(presets)
}

// MemoryStore is a Store held in memory. The zero value is empty and ready
// to use.
type MemoryStore struct {
	mu      sync.Mutex
	presets map[string]Preset
}

func (m *MemoryStore) Load() (map[string]Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Preset, len(m.presets))
	for k, v := range m.presets {
		out[k] = v
	}

	return out, nil
}

func (m *MemoryStore) Save(presets map[string]Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.presets = make(map[string]Preset, len(presets))
	for k, v := range presets {
		m.presets[k] = v
	}

	return nil
}
