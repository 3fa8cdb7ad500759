package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// FileStore keeps presets in a YAML file:
//
//	presets:
//	  whisper:
//	    speed: 10
//	    volume: 30
//	    reverse: false
type FileStore struct {
	path string
}

type fileDocument struct {
	Presets map[string]Preset `yaml:"presets"`
}

// NewFileStore returns a store backed by path. The file need not exist.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Load reads the file. A missing file is an empty mapping.
func (f *FileStore) Load() (map[string]Preset, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Preset{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("preset: read %q: %w", f.path, err)
	}

	var doc fileDocument

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil && len(bytes.TrimSpace(data)) > 0 {
		return nil, fmt.Errorf("preset: decode %q: %w", f.path, err)
	}

	if doc.Presets == nil {
		doc.Presets = map[string]Preset{}
	}

	var errs []error

	for _, name := range Names(doc.Presets) {
		if err := doc.Presets[name].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("preset %q: %w", name, err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("preset: %q: %w", f.path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Load",
		"path":     f.path,
		"count":    len(doc.Presets),
	}).Debug("Presets loaded")

	return doc.Presets, nil
}

// Save replaces the file with presets. The write goes to a temporary file
// that is renamed into place.
func (f *FileStore) Save(presets map[string]Preset) error {
	if presets == nil {
		presets = map[string]Preset{}
	}

	data, err := yaml.Marshal(fileDocument{Presets: presets})
	if err != nil {
		return fmt.Errorf("preset: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".presets-*.yaml.tmp")
	if err != nil {
		return fmt.Errorf("preset: save %q: %w", f.path, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("preset: save %q: %w", f.path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("preset: save %q: %w", f.path, err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("preset: save %q: %w", f.path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "Save",
		"path":     f.path,
		"count":    len(presets),
	}).Info("Presets saved")

	return nil
}
