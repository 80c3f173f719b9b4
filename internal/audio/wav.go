package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mjibson/go-dsp/wav"
)

// ErrUnsupportedFormat is returned for WAV data that is neither PCM nor
// IEEE float.
var ErrUnsupportedFormat = errors.New("unsupported wav format")

// WavCapturer replays a WAV stream as if it were a live input. Every
// GetBuffer call returns up to one chunk of sample frames converted to
// 16 bits; io.EOF follows the last chunk.
type WavCapturer struct {
	isCapturing bool
	w           *wav.Wav
	chunkFrames int
	read        int
	gain        float32
}

// NewWavCapturer parses the WAV header from r.
func NewWavCapturer(r io.Reader, chunkFrames int) (*WavCapturer, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("read wav header: %w", err)
	}
	switch {
	case w.AudioFormat == 1 && (w.BitsPerSample == 8 || w.BitsPerSample == 16):
	case w.AudioFormat == 3 && w.BitsPerSample == 32:
	default:
		return nil, fmt.Errorf("%w: format %d, %d bits", ErrUnsupportedFormat, w.AudioFormat, w.BitsPerSample)
	}
	if w.NumChannels == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}
	if chunkFrames <= 0 {
		chunkFrames = 1024
	}
	return &WavCapturer{w: w, chunkFrames: chunkFrames, gain: 1}, nil
}

// SampleRate returns the sample rate from the WAV header.
func (c *WavCapturer) SampleRate() int {
	return int(c.w.SampleRate)
}

// Channels returns the channel count from the WAV header.
func (c *WavCapturer) Channels() int {
	return int(c.w.NumChannels)
}

// Start begins audio capture
func (c *WavCapturer) Start() error {
	if c.isCapturing {
		return ErrAlreadyCapturing
	}
	c.isCapturing = true
	return nil
}

// Stop ends audio capture
func (c *WavCapturer) Stop() error {
	if !c.isCapturing {
		return ErrNotCapturing
	}
	c.isCapturing = false
	return nil
}

// IsCapturing returns true if currently capturing audio
func (c *WavCapturer) IsCapturing() bool {
	return c.isCapturing
}

// SetAmplification sets the gain applied to the decoded samples.
func (c *WavCapturer) SetAmplification(factor float32) {
	c.gain = factor
}

// GetBuffer returns the next chunk of the file.
func (c *WavCapturer) GetBuffer() (*AudioBuffer, error) {
	if !c.isCapturing {
		return nil, ErrNotCapturing
	}
	channels := int(c.w.NumChannels)
	n := min(c.chunkFrames*channels, c.w.Samples-c.read)
	n -= n % channels
	if n <= 0 {
		return nil, io.EOF
	}

	raw, err := c.w.ReadSamples(n)
	if err != nil {
		return nil, fmt.Errorf("read wav samples: %w", err)
	}
	c.read += n

	var samples []int16
	switch s := raw.(type) {
	case []int16:
		samples = s
	case []uint8:
		samples = make([]int16, len(s))
		for i, v := range s {
			samples[i] = (int16(v) - 128) << 8
		}
	case []float32:
		samples = make([]int16, len(s))
		for i, v := range s {
			samples[i] = floatToInt16(v)
		}
	default:
		return nil, fmt.Errorf("%w: sample type %T", ErrUnsupportedFormat, raw)
	}
	amplify(samples, c.gain)

	return &AudioBuffer{
		Samples:    samples,
		Channels:   channels,
		SampleRate: int(c.w.SampleRate),
	}, nil
}

func floatToInt16(v float32) int16 {
	f := math.Round(float64(v) * 32767)
	return int16(max(min(f, 32767), -32768))
}
