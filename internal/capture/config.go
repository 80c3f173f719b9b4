package capture

import (
	"errors"
	"fmt"

	"github.com/0xlemi/tunebox/internal/note"
	"github.com/0xlemi/tunebox/internal/power"
)

// Defaults for a capture instance.
const (
	DefaultSampleRate  = 48000
	DefaultFrameLen    = 1024
	DefaultActiveLevel = 300
	DefaultChannel     = 0
)

// ErrConfig wraps every configuration problem reported by New.
var ErrConfig = errors.New("invalid capture config")

// Config holds everything a capture instance needs at construction.
// Fields after Overlap can also be changed at runtime through the
// parameter registry.
type Config struct {
	SampleRate int
	FrameLen   int
	Window     power.Window
	Channels   int
	Overlap    int

	ActiveLevel      int
	PlayButtonEnable bool
	MinNote          int
	MaxNote          int
	Scale            note.Scale
	ExtendFrames     int
	SuppressFrames   int
	KeepFrames       int

	// MIDIChannel is stamped on every note event.
	MIDIChannel int
}

// DefaultConfig returns a mono, 48 kHz configuration with a Hamming window,
// 50% overlap and the default hysteresis limits.
func DefaultConfig() Config {
	return Config{
		SampleRate:     DefaultSampleRate,
		FrameLen:       DefaultFrameLen,
		Window:         power.Hamming,
		Channels:       1,
		Overlap:        DefaultFrameLen / 2,
		ActiveLevel:    DefaultActiveLevel,
		MinNote:        note.Min,
		MaxNote:        note.Max,
		Scale:          note.ScaleAll,
		ExtendFrames:   note.DefaultExtendFrames,
		SuppressFrames: note.DefaultSuppressFrames,
		KeepFrames:     note.DefaultKeepFrames,
		MIDIChannel:    DefaultChannel,
	}
}

// Validate checks the fields that are not validated by the power
// estimator.
func (c Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrConfig, c.SampleRate)
	case c.MinNote < note.Min || c.MaxNote > note.Max || c.MinNote > c.MaxNote:
		return fmt.Errorf("%w: note range [%d, %d]", ErrConfig, c.MinNote, c.MaxNote)
	case !c.Scale.Valid():
		return fmt.Errorf("%w: scale %#x", ErrConfig, uint16(c.Scale))
	case c.ExtendFrames < 0 || c.SuppressFrames < 0 || c.KeepFrames < 0:
		return fmt.Errorf("%w: negative frame limit", ErrConfig)
	case c.MIDIChannel < 0 || c.MIDIChannel > 15:
		return fmt.Errorf("%w: MIDI channel %d", ErrConfig, c.MIDIChannel)
	}
	return nil
}
