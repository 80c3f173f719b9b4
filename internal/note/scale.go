package note

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Scale is a set of pitch classes: bit i set means pitch class i (C = 0)
// belongs to the scale.
type Scale uint16

// ScaleAll is the chromatic scale, every pitch class allowed.
const ScaleAll Scale = 1<<PitchClasses - 1

// Named scales rooted at C.
const (
	ScaleMajor           Scale = 0xAB5 // C D E F G A B
	ScaleMinor           Scale = 0x5AD // C D Eb F G Ab Bb
	ScalePentatonic      Scale = 0x295 // C D E G A
	ScaleMinorPentatonic Scale = 0x4A9 // C Eb F G Bb
	ScaleBlues           Scale = 0x4E9 // C Eb F Gb G Bb
	ScaleWholeTone       Scale = 0x555 // C D E F# G# A#
	ScaleRyukyu          Scale = 0x8B1 // C E F G B
)

// ErrScale is returned for scale strings that cannot be parsed.
var ErrScale = errors.New("invalid scale")

var scaleNames = map[string]Scale{
	"chromatic":        ScaleAll,
	"major":            ScaleMajor,
	"minor":            ScaleMinor,
	"pentatonic":       ScalePentatonic,
	"minor-pentatonic": ScaleMinorPentatonic,
	"blues":            ScaleBlues,
	"whole-tone":       ScaleWholeTone,
	"ryukyu":           ScaleRyukyu,
}

// Contains reports whether the pitch class of n is in the scale.
func (s Scale) Contains(n int) bool {
	return s&(1<<PitchClass(n)) != 0
}

// Valid reports whether only the low 12 bits are used.
func (s Scale) Valid() bool {
	return s&^ScaleAll == 0
}

// Transpose rotates the scale up by semitones, e.g. ScaleMajor.Transpose(2)
// is D major.
func (s Scale) Transpose(semitones int) Scale {
	k := PitchClass(semitones)
	s &= ScaleAll
	return (s<<k | s>>(PitchClasses-k)) & ScaleAll
}

// String returns the preset name if s is one, otherwise the pitch classes,
// e.g. "C D E".
func (s Scale) String() string {
	for name, v := range scaleNames {
		if v == s {
			return name
		}
	}
	var parts []string
	for pc := 0; pc < PitchClasses; pc++ {
		if s.Contains(pc) {
			parts = append(parts, names[pc])
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// ScaleNames lists the preset names in alphabetical order.
func ScaleNames() []string {
	out := make([]string, 0, len(scaleNames))
	for name := range scaleNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ParseScale accepts a preset name, optionally followed by a root such as
// "major:D", or a numeric mask such as "0xAB5" or "0b101010110101".
func ParseScale(s string) (Scale, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	name, root, hasRoot := strings.Cut(s, ":")
	if v, ok := scaleNames[name]; ok {
		if !hasRoot {
			return v, nil
		}
		pc, ok := parseClass(root)
		if !ok {
			return 0, fmt.Errorf("%w: unknown root %q", ErrScale, root)
		}
		return v.Transpose(pc), nil
	}

	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil || !Scale(n).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrScale, s)
	}
	return Scale(n), nil
}

func parseClass(s string) (int, bool) {
	for pc, name := range names {
		if strings.EqualFold(name, s) {
			return pc, true
		}
	}
	return 0, false
}
