package effects

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFilter is returned for effect kinds outside the catalog.
var ErrUnsupportedFilter = errors.New("unsupported filter")

// Kind identifies one entry of the effect catalog.
type Kind int

const (
	KindRobot Kind = iota + 1
	KindEcho
	KindHighPitch
	KindReverb
	KindBassBoost
	KindCustom
)

var kindLabels = map[Kind]string{
	KindRobot:     "Robot",
	KindEcho:      "Echo",
	KindHighPitch: "High Pitch",
	KindReverb:    "Reverb",
	KindBassBoost: "Bass Boost",
	KindCustom:    "Custom",
}

// Kinds returns the catalog in menu order.
func Kinds() []Kind {
	return []Kind{KindRobot, KindEcho, KindHighPitch, KindReverb, KindBassBoost, KindCustom}
}

// String returns the menu label, e.g. "High Pitch".
func (k Kind) String() string {
	if s, ok := kindLabels[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Slug returns the lower-case, dash-separated name used in file names and
// command lines, e.g. "high-pitch".
func (k Kind) Slug() string {
	return strings.ReplaceAll(strings.ToLower(k.String()), " ", "-")
}

// Valid reports whether k is part of the catalog.
func (k Kind) Valid() bool {
	_, ok := kindLabels[k]
	return ok
}

// ParseKind accepts menu labels and slugs case-insensitively, ignoring
// spaces, dashes and underscores ("High Pitch", "high-pitch", "HIGHPITCH").
func ParseKind(s string) (Kind, error) {
	key := normalizeKindName(s)

	for k, label := range kindLabels {
		if normalizeKindName(label) == key {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFilter, s)
}

func normalizeKindName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}

		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}
