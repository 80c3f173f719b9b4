// Package power turns a stream of PCM samples into per-frame energy values.
//
// An Estimator queues samples per channel and, once a full frame is
// available, weights it with a window and reports the sum of squares. Frames
// can overlap: the first Overlap samples of every analysis span repeat the
// tail of the previous one.
//
// Put and Power never block. "Not enough data yet" is a normal result and
// callers are expected to poll. An Estimator is not safe for concurrent use;
// one producer and one consumer must be sequenced by the caller, and Begin
// must not race with either.
package power

import (
	"errors"
	"fmt"

	"github.com/0xlemi/tunebox/internal/ringbuf"
)

// MaxChannels is the largest channel count an Estimator accepts.
const MaxChannels = 4

// Errors returned by New and Begin.
var (
	ErrFrameLength = errors.New("frame length must be at least 2")
	ErrChannels    = errors.New("channel count out of range")
	ErrOverlap     = errors.New("overlap out of range")
	ErrWindow      = errors.New("unknown window")
)

// Config is the reconfigurable part of an Estimator.
type Config struct {
	Window   Window
	Channels int
	// Overlap is the number of samples carried over from the previous
	// span, at most half the frame length.
	Overlap int
}

// Estimator is a windowed frame-power estimator.
type Estimator struct {
	frameLen int
	cfg      Config
	begun    bool

	rings [MaxChannels]ringbuf.Buffer
	raw   []int16
	work  [MaxChannels][]float32
	frame [MaxChannels][]float64
	coef  []float32
}

// New allocates an estimator for frames of frameLen samples. Begin must be
// called before samples are accepted.
func New(frameLen int) (*Estimator, error) {
	if frameLen < 2 {
		return nil, fmt.Errorf("power: %w: %d", ErrFrameLength, frameLen)
	}

	maxSpan := frameLen + frameLen/2
	e := &Estimator{
		frameLen: frameLen,
		raw:      make([]int16, frameLen),
		coef:     make([]float32, maxSpan),
	}
	for ch := range e.rings {
		e.rings[ch].Init(MaxChannels * frameLen)
		e.work[ch] = make([]float32, maxSpan)
		e.frame[ch] = make([]float64, maxSpan)
	}
	return e, nil
}

// DefaultConfig is a Hamming window over a single channel with half-frame
// overlap.
func (e *Estimator) DefaultConfig() Config {
	return Config{Window: Hamming, Channels: 1, Overlap: e.frameLen / 2}
}

// Begin applies cfg, recomputes the window and discards all buffered
// samples. An invalid cfg is rejected and the previous state is kept.
func (e *Estimator) Begin(cfg Config) error {
	if cfg.Channels < 1 || cfg.Channels > MaxChannels {
		return fmt.Errorf("power: %w: %d", ErrChannels, cfg.Channels)
	}
	if cfg.Overlap < 0 || cfg.Overlap > e.frameLen/2 {
		return fmt.Errorf("power: %w: %d", ErrOverlap, cfg.Overlap)
	}
	if cfg.Window < Hamming || cfg.Window > Rectangle {
		return fmt.Errorf("power: %w: %v", ErrWindow, cfg.Window)
	}

	e.cfg = cfg
	e.begun = true
	fillCoefficients(e.coef[:e.Span()], cfg.Window)
	for ch := range e.rings {
		e.rings[ch].Reset()
	}
	e.Clear()
	return nil
}

// Config returns the active configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// FrameLen is the number of new samples consumed by each Power call.
func (e *Estimator) FrameLen() int {
	return e.frameLen
}

// Span is the analysis length: overlap plus one frame.
func (e *Estimator) Span() int {
	return e.cfg.Overlap + e.frameLen
}

// Coefficients returns the active window. The slice must not be modified.
func (e *Estimator) Coefficients() []float32 {
	return e.coef[:e.Span()]
}

// Clear zeroes the working buffers, so the next span starts from silence.
func (e *Estimator) Clear() {
	for ch := range e.work {
		clear(e.work[ch])
		clear(e.frame[ch])
	}
}

// Put queues interleaved samples for the configured channels. It returns
// false without side effects if the estimator has not begun or any channel
// lacks room for len(samples)/Channels samples.
func (e *Estimator) Put(samples []int16) bool {
	if !e.begun || e.cfg.Channels > MaxChannels {
		return false
	}
	frames := len(samples) / e.cfg.Channels
	for ch := 0; ch < e.cfg.Channels; ch++ {
		if frames > e.rings[ch].Remaining() {
			return false
		}
	}

	if e.cfg.Channels == 1 {
		return e.rings[0].Put(samples)
	}
	for ch := 0; ch < e.cfg.Channels; ch++ {
		e.rings[ch].PutChannel(samples, e.cfg.Channels, ch)
	}
	return true
}

// Stored reports the samples queued on channel ch.
func (e *Estimator) Stored(ch int) int {
	if !e.valid(ch) {
		return 0
	}
	return e.rings[ch].Stored()
}

// Remaining reports the free capacity of channel ch in samples.
func (e *Estimator) Remaining(ch int) int {
	if !e.valid(ch) {
		return 0
	}
	return e.rings[ch].Remaining()
}

// Ready reports whether a full frame is queued on channel ch.
func (e *Estimator) Ready(ch int) bool {
	return e.valid(ch) && e.rings[ch].Stored() >= e.frameLen
}

// Power consumes one frame from channel ch and returns the energy of the
// windowed span. It returns 0 without consuming anything when fewer than
// FrameLen samples are queued or ch is not a configured channel.
func (e *Estimator) Power(ch int) float32 {
	if !e.Ready(ch) {
		return 0
	}

	span := e.Span()
	work := e.work[ch][:span]
	overlap := e.cfg.Overlap
	copy(work[:overlap], work[e.frameLen:])

	e.rings[ch].Get(e.raw)
	for i, s := range e.raw {
		work[overlap+i] = float32(s)
	}

	frame := e.frame[ch][:span]
	var out float32
	for i, v := range work {
		x := v * e.coef[i]
		frame[i] = float64(x)
		out += x * x
	}
	return out
}

// Frame returns the windowed span computed by the last Power call on
// channel ch. The slice is reused by the next call.
func (e *Estimator) Frame(ch int) []float64 {
	if !e.valid(ch) {
		return nil
	}
	return e.frame[ch][:e.Span()]
}

func (e *Estimator) valid(ch int) bool {
	return e.begun && ch >= 0 && ch < e.cfg.Channels
}
