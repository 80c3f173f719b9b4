package pitch

import (
	"errors"
	"math"

	"github.com/0xlemi/tunebox/internal/note"
)

// Errors
var (
	ErrEmptyBuffer = errors.New("empty audio frame")
	ErrNoPeak      = errors.New("no spectral peak in range")
)

// Detector estimates the dominant frequency of one windowed frame
type Detector interface {
	// DetectFrequency returns the dominant frequency of frame in Hz
	DetectFrequency(frame []float64, sampleRate int) (float64, error)
}

// Note represents a detected frequency relative to the nearest
// equal-tempered note
type Note struct {
	Number    int     // MIDI note number
	Name      string  // e.g., "A", "A#", "B"
	Octave    int     // e.g., 4 for middle C (C4)
	Frequency float64 // Frequency in Hz
	Cents     float64 // Cents deviation from perfect pitch (-50 to +50)
}

// FrequencyToNote converts a frequency to the nearest chromatic note
func FrequencyToNote(frequency float64) Note {
	if !(frequency > 0) {
		return Note{Number: note.Invalid, Name: "--"}
	}

	// A4 = 440Hz = note 69, calculate semitones from A4
	semitones := 12 * math.Log2(frequency/440.0)

	// Round to nearest semitone
	rounded := math.Round(semitones)

	// Cents deviation (difference between actual and rounded semitones)
	cents := 100 * (semitones - rounded)

	n := 69 + int(rounded)
	return Note{
		Number:    n,
		Name:      note.ClassName(n),
		Octave:    note.Octave(n),
		Frequency: frequency,
		Cents:     cents,
	}
}
