// Package note quantizes detected frequencies to the notes of a musical
// scale and stabilizes the per-frame result into a note worth performing.
package note

import (
	"fmt"
	"math"
)

// Note numbers follow MIDI: 60 is middle C (C4), 69 is A4 at 440 Hz.
const (
	Min     = 0
	Max     = 127
	Invalid = -1

	// PitchClasses is the number of pitch classes per octave.
	PitchClasses = 12
)

// Entry pairs a note with its frequency in decihertz (tenths of a hertz).
type Entry struct {
	Freq uint32
	Note int
}

// table is ascending by frequency. Index 0 and the last index are
// sentinels one step outside [Min, Max]; they bound the threshold scan and
// are never returned. The entry of note n is at index n+1.
var table = buildTable()

func buildTable() [Max - Min + 3]Entry {
	var t [Max - Min + 3]Entry
	for i := range t {
		n := Min - 1 + i
		t[i] = Entry{Freq: Decihertz(Frequency(n)), Note: n}
	}
	return t
}

// Table returns a copy of the frequency table, sentinels included.
func Table() []Entry {
	t := table
	return t[:]
}

// Lookup returns the table entry of note n.
func Lookup(n int) (Entry, bool) {
	if n < Min-1 || n > Max+1 {
		return Entry{}, false
	}
	return table[n-Min+1], true
}

// Frequency returns the equal-tempered frequency of note n in hertz.
func Frequency(n int) float64 {
	return 440 * math.Pow(2, float64(n-69)/12)
}

// Decihertz converts hz to the fixed-point unit of the table. Non-positive
// and NaN input maps to 0.
func Decihertz(hz float64) uint32 {
	if !(hz > 0) {
		return 0
	}
	if hz >= math.MaxUint32/10 {
		return math.MaxUint32
	}
	return uint32(math.Round(hz * 10))
}

var names = [PitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// PitchClass returns n modulo 12 in the range 0..11.
func PitchClass(n int) int {
	return ((n % PitchClasses) + PitchClasses) % PitchClasses
}

// Octave returns the octave of n, with C4 = 60.
func Octave(n int) int {
	return int(math.Floor(float64(n)/PitchClasses)) - 1
}

// ClassName returns the pitch-class name of n, e.g. "C#".
func ClassName(n int) string {
	return names[PitchClass(n)]
}

// Name returns the scientific pitch name of n, e.g. "A4", or "--" for an
// invalid note.
func Name(n int) string {
	if n < Min || n > Max {
		return "--"
	}
	return fmt.Sprintf("%s%d", ClassName(n), Octave(n))
}
