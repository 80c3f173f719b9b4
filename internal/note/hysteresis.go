package note

// Default frame limits.
const (
	DefaultExtendFrames   = 5
	DefaultSuppressFrames = 3
	DefaultKeepFrames     = 3
)

// Hysteresis debounces the raw per-frame note into the note to perform.
// The zero value has all limits at 0 and passes raw notes through.
type Hysteresis struct {
	// ExtendFrames is how long a loud but unrecognized pitch keeps the
	// performed note sounding.
	ExtendFrames int
	// SuppressFrames is how long a newly loud signal is muted before its
	// note is accepted.
	SuppressFrames int
	// KeepFrames is how long the performed note sustains after the volume
	// falls below the active level.
	KeepFrames int

	invalid int
	active  int
	silent  int
}

// NewHysteresis returns an engine with the default limits.
func NewHysteresis() *Hysteresis {
	return &Hysteresis{
		ExtendFrames:   DefaultExtendFrames,
		SuppressFrames: DefaultSuppressFrames,
		KeepFrames:     DefaultKeepFrames,
	}
}

// Step advances one frame and returns the note to perform. raw is the
// quantized note of the frame, performed the note returned by the previous
// Step.
func (h *Hysteresis) Step(raw, volume, activeLevel, performed int) int {
	out := raw

	if raw == Invalid && volume >= activeLevel {
		if h.invalid < h.ExtendFrames {
			h.invalid++
			out = performed
		}
	} else {
		h.invalid = 0
	}

	if volume < activeLevel {
		h.active = 0
		if h.silent < h.KeepFrames {
			out = performed
		}
		h.silent++
	} else {
		if h.active < h.SuppressFrames {
			out = Invalid
		}
		h.active++
		h.silent = 0
	}
	return out
}

// Counters returns the consecutive-frame counters.
func (h *Hysteresis) Counters() (invalid, active, silent int) {
	return h.invalid, h.active, h.silent
}

// Reset zeroes the counters and keeps the limits.
func (h *Hysteresis) Reset() {
	h.invalid, h.active, h.silent = 0, 0, 0
}
