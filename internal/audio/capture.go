package audio

import "errors"

// Errors returned by capturers.
var (
	ErrNotCapturing     = errors.New("audio capture not started")
	ErrAlreadyCapturing = errors.New("audio capture already started")
	ErrNoData           = errors.New("no audio data available")
)

// AudioBuffer holds interleaved 16-bit samples.
type AudioBuffer struct {
	Samples    []int16
	Channels   int
	SampleRate int
}

// Frames returns the number of sample frames in the buffer.
func (b *AudioBuffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Capturer defines the interface for audio capture
type Capturer interface {
	// Start begins audio capture
	Start() error

	// Stop ends audio capture
	Stop() error

	// GetBuffer returns the samples captured since the previous call. It
	// returns ErrNoData when nothing new has arrived and io.EOF when the
	// input is exhausted.
	GetBuffer() (*AudioBuffer, error)

	// IsCapturing returns true if currently capturing audio
	IsCapturing() bool
}

// amplify scales samples in place, saturating at the int16 limits.
func amplify(samples []int16, gain float32) {
	if gain == 1 {
		return
	}
	for i, s := range samples {
		v := float32(s) * gain
		switch {
		case v > 32767:
			samples[i] = 32767
		case v < -32768:
			samples[i] = -32768
		default:
			samples[i] = int16(v)
		}
	}
}
