// Package capture runs the per-frame note decision for one audio input.
//
// A Source owns the power estimator, the pitch detector, the quantizer
// settings, the hysteresis counters and the performed note. Samples go in
// through Write; every Process call handles one frame and dispatches note
// events to a Sink. A Source is not safe for concurrent use: the caller
// sequences Write, Process and parameter changes.
package capture

import (
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/0xlemi/tunebox/internal/note"
	"github.com/0xlemi/tunebox/internal/pitch"
	"github.com/0xlemi/tunebox/internal/power"
)

// ErrBufferFull is returned by Write when the samples do not fit. Nothing
// is queued in that case.
var ErrBufferFull = errors.New("sample buffer full")

// MonitorHeader is the column header of the monitor stream.
const MonitorHeader = "millis in_freq out_freq volume threshold"

// Frame describes one processed frame.
type Frame struct {
	Index   uint64
	Elapsed time.Duration
	// Channel is the loudest channel, the one the pitch was taken from.
	Channel   int
	Power     float32
	Volume    int
	Frequency float64
	Raw       int
	Note      int
}

// Source is one capture instance.
type Source struct {
	cfg   Config
	est   *power.Estimator
	det   pitch.Detector
	quant note.Quantizer
	hyst  note.Hysteresis
	sink  Sink

	performed int
	button    bool
	volume    int
	frames    uint64

	monitor   io.Writer
	monitorOn bool
}

// New creates a capture instance. A nil sink discards events.
func New(cfg Config, sink Sink) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	est, err := power.New(cfg.FrameLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	err = est.Begin(power.Config{Window: cfg.Window, Channels: cfg.Channels, Overlap: cfg.Overlap})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if sink == nil {
		sink = discard{}
	}

	return &Source{
		cfg:   cfg,
		est:   est,
		det:   pitch.NewFFTDetector(),
		quant: note.Quantizer{Scale: cfg.Scale, Min: cfg.MinNote, Max: cfg.MaxNote},
		hyst: note.Hysteresis{
			ExtendFrames:   cfg.ExtendFrames,
			SuppressFrames: cfg.SuppressFrames,
			KeepFrames:     cfg.KeepFrames,
		},
		sink:      sink,
		performed: note.Invalid,
		monitor:   io.Discard,
	}, nil
}

// SetDetector replaces the pitch detector.
func (s *Source) SetDetector(d pitch.Detector) {
	s.det = d
}

// SetMonitorOutput sets where the monitor stream is written.
func (s *Source) SetMonitorOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	s.monitor = w
}

// Config returns the current configuration, runtime changes included.
func (s *Source) Config() Config {
	return s.cfg
}

// Reconfigure restarts the estimator with a new window, channel count and
// overlap. Queued samples are dropped and the performed note is released.
func (s *Source) Reconfigure(w power.Window, channels, overlap int) error {
	err := s.est.Begin(power.Config{Window: w, Channels: channels, Overlap: overlap})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	s.cfg.Window, s.cfg.Channels, s.cfg.Overlap = w, channels, overlap
	s.hyst.Reset()
	s.perform(note.Invalid, 0)
	return nil
}

// Write queues interleaved samples. Either all of them are queued or, with
// ErrBufferFull, none.
func (s *Source) Write(samples []int16) error {
	if !s.est.Put(samples) {
		return ErrBufferFull
	}
	return nil
}

// Available returns how many interleaved samples Write accepts right now.
func (s *Source) Available() int {
	return s.est.Remaining(0) * s.cfg.Channels
}

// Process handles one frame if a full one is queued. It returns false, and
// does nothing, otherwise.
func (s *Source) Process() (Frame, bool) {
	if !s.est.Ready(0) {
		return Frame{}, false
	}

	f := Frame{Index: s.frames, Channel: -1}
	for ch := 0; ch < s.cfg.Channels; ch++ {
		p := s.est.Power(ch)
		if f.Channel < 0 || p > f.Power {
			f.Channel, f.Power = ch, p
		}
	}
	samples := float64(f.Index+1) * float64(s.cfg.FrameLen)
	f.Elapsed = time.Duration(math.Round(samples / float64(s.cfg.SampleRate) * float64(time.Second)))
	f.Volume = int(math.Sqrt(float64(f.Power) / float64(s.est.Span())))

	if freq, err := s.det.DetectFrequency(s.est.Frame(f.Channel), s.cfg.SampleRate); err == nil {
		f.Frequency = freq
	}
	f.Raw = s.quant.Lookup(note.Decihertz(f.Frequency), s.performed)

	out := s.hyst.Step(f.Raw, f.Volume, s.cfg.ActiveLevel, s.performed)
	if s.cfg.PlayButtonEnable && !s.button {
		out = note.Invalid
	}
	f.Note = out

	s.volume = f.Volume
	s.perform(out, f.Volume)
	s.writeMonitor(f)
	s.frames++
	return f, true
}

// Drain processes frames until none is ready and returns how many were
// handled.
func (s *Source) Drain() int {
	n := 0
	for {
		if _, ok := s.Process(); !ok {
			return n
		}
		n++
	}
}

// Feed queues samples of any length, processing frames whenever the buffer
// fills, and calls fn for every processed frame. A trailing partial sample
// frame is dropped.
func (s *Source) Feed(samples []int16, fn func(Frame)) {
	samples = samples[:len(samples)-len(samples)%s.cfg.Channels]
	for {
		if n := min(len(samples), s.Available()); n > 0 {
			s.Write(samples[:n])
			samples = samples[n:]
		}
		for {
			f, ok := s.Process()
			if !ok {
				break
			}
			if fn != nil {
				fn(f)
			}
		}
		if len(samples) == 0 {
			return
		}
	}
}

// Performed returns the note currently sounding, note.Invalid if none.
func (s *Source) Performed() int {
	return s.performed
}

// Release ends the performed note, if any, and resets the counters.
func (s *Source) Release() {
	s.hyst.Reset()
	s.perform(note.Invalid, 0)
}

// SetButton reports the state of the play button. It only matters while
// the play button is enabled.
func (s *Source) SetButton(pressed bool) {
	s.button = pressed
}

// Button returns the last reported play button state.
func (s *Source) Button() bool {
	return s.button
}

func (s *Source) perform(n, volume int) {
	if n == s.performed {
		return
	}
	if s.performed != note.Invalid {
		s.sink.Note(Event{Kind: NoteOff, Note: s.performed, Channel: s.cfg.MIDIChannel, Frame: s.frames})
	}
	if n != note.Invalid {
		s.sink.Note(Event{
			Kind:     NoteOn,
			Note:     n,
			Velocity: velocity(volume, s.cfg.ActiveLevel),
			Channel:  s.cfg.MIDIChannel,
			Frame:    s.frames,
		})
	}
	s.performed = n
}

// velocity maps the volume to 1..127, reaching 127 at twice the active
// level.
func velocity(volume, activeLevel int) int {
	if activeLevel <= 0 {
		return 127
	}
	v := 127 * volume / (2 * activeLevel)
	return min(max(v, 1), 127)
}

func (s *Source) writeMonitor(f Frame) {
	if !s.monitorOn {
		return
	}
	var out float64
	if f.Note != note.Invalid {
		out = note.Frequency(f.Note)
	}
	fmt.Fprintf(s.monitor, "%d %.1f %.1f %d %d\n",
		f.Elapsed.Milliseconds(), f.Frequency, out, f.Volume, s.cfg.ActiveLevel)
}
