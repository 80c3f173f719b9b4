// Package pitch estimates the dominant frequency of windowed audio frames.
package pitch

import (
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
)

// FFTDetector implements pitch detection using FFT
type FFTDetector struct {
	minFrequency  float64 // Lowest frequency to detect (Hz)
	maxFrequency  float64 // Highest frequency to detect (Hz)
	noiseFloor    float64 // Minimum normalized bin magnitude, in sample units
	peakThreshold float64 // Minimum peak height as fraction of highest peak
}

// NewFFTDetector creates a new FFT-based pitch detector
func NewFFTDetector() *FFTDetector {
	return &FFTDetector{
		minFrequency:  60.0,   // a little below a low male voice
		maxFrequency:  2000.0, // whistles and high instruments
		noiseFloor:    1.0,    // one LSB of 16-bit audio
		peakThreshold: 0.2,
	}
}

// SetRange limits detection to [lo, hi] Hz
func (d *FFTDetector) SetRange(lo, hi float64) {
	if lo > 0 && hi > lo {
		d.minFrequency = lo
		d.maxFrequency = hi
	}
}

// Range returns the detection range in Hz
func (d *FFTDetector) Range() (lo, hi float64) {
	return d.minFrequency, d.maxFrequency
}

// DetectFrequency analyzes a windowed frame and returns its dominant
// frequency
func (d *FFTDetector) DetectFrequency(frame []float64, sampleRate int) (float64, error) {
	if len(frame) < 4 || sampleRate <= 0 {
		return 0, ErrEmptyBuffer
	}

	// Zero-pad to a power of two so the radix-2 path is used
	padded := frame
	if !dsputils.IsPowerOf2(len(frame)) {
		padded = dsputils.ZeroPadF(frame, dsputils.NextPowerOf2(len(frame)))
	}

	spectrum := fft.FFTReal(padded)

	freq, ok := d.findFundamentalFrequency(spectrum, sampleRate)
	if !ok {
		return 0, ErrNoPeak
	}
	return freq, nil
}

// Peak represents a peak in the frequency spectrum
type Peak struct {
	Bin       int
	Magnitude float64
	Frequency float64
}

// findFundamentalFrequency finds the strongest peak inside the detection
// range
func (d *FFTDetector) findFundamentalFrequency(spectrum []complex128, sampleRate int) (float64, bool) {
	// We only need to look at the first half of the spectrum (Nyquist theorem)
	spectrumHalf := spectrum[:len(spectrum)/2]

	// Normalized magnitudes, so the noise floor does not depend on frame size
	mags := make([]float64, len(spectrumHalf))
	scale := 1 / float64(len(spectrum))
	for i, c := range spectrumHalf {
		mags[i] = cmplx.Abs(c) * scale
	}

	// Calculate frequency resolution (Hz per bin)
	binSizeHz := float64(sampleRate) / float64(len(spectrum))

	// Calculate min/max bin numbers based on frequency range
	minBin := int(d.minFrequency / binSizeHz)
	if minBin < 1 {
		minBin = 1 // Avoid DC component
	}

	maxBin := int(d.maxFrequency/binSizeHz) + 1
	if maxBin >= len(mags) {
		maxBin = len(mags) - 1
	}
	if minBin >= maxBin {
		return 0, false
	}

	// Find the maximum magnitude for normalization
	maxMagnitude := 0.0
	for i := minBin; i <= maxBin; i++ {
		if mags[i] > maxMagnitude {
			maxMagnitude = mags[i]
		}
	}

	// Don't process further if signal is too weak
	if maxMagnitude < d.noiseFloor {
		return 0, false
	}

	var peaks []Peak
	for i := minBin; i < maxBin; i++ {
		magnitude := mags[i]
		prev, next := mags[i-1], mags[i+1]

		// Check if this bin is a peak (higher than adjacent bins)
		if magnitude <= prev || magnitude <= next || magnitude < maxMagnitude*d.peakThreshold {
			continue
		}

		// Quadratic interpolation for more accurate peak location
		// x = 0.5 * (R[k-1] - R[k+1]) / (R[k-1] - 2*R[k] + R[k+1]) + k
		freq := float64(i) * binSizeHz
		if denom := prev - 2*magnitude + next; denom != 0 {
			delta := 0.5 * (prev - next) / denom
			freq = (float64(i) + delta) * binSizeHz
		}

		if freq < d.minFrequency || freq > d.maxFrequency {
			continue
		}
		peaks = append(peaks, Peak{Bin: i, Magnitude: magnitude, Frequency: freq})
	}

	if len(peaks) == 0 {
		return 0, false
	}

	// Sort peaks by magnitude (descending)
	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Magnitude > peaks[j].Magnitude
	})

	// The highest peak is our candidate for fundamental frequency
	return peaks[0].Frequency, true
}
