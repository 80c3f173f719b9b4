package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
)

// maxPendingFrames caps the sample frames held between GetBuffer calls. Older samples
// are dropped when a reader falls behind.
const maxPendingFrames = 1 << 16

// PortAudioCapturer implements audio capture using PortAudio
type PortAudioCapturer struct {
	isCapturing     bool
	stream          *portaudio.Stream
	framesPerBuffer int
	sampleRate      int
	channels        int

	bufferMutex   sync.Mutex
	pending       []int16
	dropped       int
	amplification float32
}

// NewPortAudioCapturer creates a new audio capturer using PortAudio
func NewPortAudioCapturer(framesPerBuffer, sampleRate, channels int) (*PortAudioCapturer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	return &PortAudioCapturer{
		framesPerBuffer: framesPerBuffer,
		sampleRate:      sampleRate,
		channels:        channels,
		pending:         make([]int16, 0, framesPerBuffer*channels*4),
		amplification:   1,
	}, nil
}

// Start begins audio capture
func (c *PortAudioCapturer) Start() error {
	if c.isCapturing {
		return ErrAlreadyCapturing
	}

	var err error
	c.stream, err = portaudio.OpenDefaultStream(
		c.channels, // input channels
		0,          // no output
		float64(c.sampleRate),
		c.framesPerBuffer,
		c.processAudio,
	)
	if err != nil {
		return err
	}

	if err := c.stream.Start(); err != nil {
		c.stream.Close()
		return err
	}

	c.isCapturing = true
	return nil
}

// Stop ends audio capture and releases PortAudio.
func (c *PortAudioCapturer) Stop() error {
	if !c.isCapturing {
		return ErrNotCapturing
	}

	if err := c.stream.Stop(); err != nil {
		return err
	}
	if err := c.stream.Close(); err != nil {
		return err
	}
	if err := portaudio.Terminate(); err != nil {
		return err
	}

	c.isCapturing = false
	return nil
}

// processAudio runs on the PortAudio thread and only queues the samples.
func (c *PortAudioCapturer) processAudio(in []int16) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	start := len(c.pending)
	c.pending = append(c.pending, in...)
	amplify(c.pending[start:], c.amplification)

	if over := len(c.pending) - maxPendingFrames*c.channels; over > 0 {
		over += (c.channels - over%c.channels) % c.channels
		c.pending = append(c.pending[:0], c.pending[over:]...)
		c.dropped += over / c.channels
	}
}

// GetBuffer returns everything captured since the previous call.
func (c *PortAudioCapturer) GetBuffer() (*AudioBuffer, error) {
	if !c.isCapturing {
		return nil, ErrNotCapturing
	}

	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	if len(c.pending) == 0 {
		return nil, ErrNoData
	}
	buf := &AudioBuffer{
		Samples:    make([]int16, len(c.pending)),
		Channels:   c.channels,
		SampleRate: c.sampleRate,
	}
	copy(buf.Samples, c.pending)
	c.pending = c.pending[:0]
	return buf, nil
}

// IsCapturing returns true if currently capturing audio
func (c *PortAudioCapturer) IsCapturing() bool {
	return c.isCapturing
}

// Dropped returns how many sample frames were discarded because the reader
// fell behind.
func (c *PortAudioCapturer) Dropped() int {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()
	return c.dropped
}

// SetAmplification sets the input gain.
func (c *PortAudioCapturer) SetAmplification(factor float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	if factor < 0.1 {
		factor = 0.1
	}
	c.amplification = factor
}
