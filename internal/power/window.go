package power

import (
	"fmt"
	"strings"

	"github.com/mjibson/go-dsp/window"
)

// Window selects the weighting applied to every analysis span.
type Window int

const (
	Hamming Window = iota
	Hanning
	FlatTop
	Rectangle
)

var windowNames = [...]string{
	Hamming:   "hamming",
	Hanning:   "hanning",
	FlatTop:   "flattop",
	Rectangle: "rectangle",
}

func (w Window) String() string {
	if w < 0 || int(w) >= len(windowNames) {
		return fmt.Sprintf("Window(%d)", int(w))
	}
	return windowNames[w]
}

// ParseWindow converts a window name such as "hann" or "flattop".
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hamming":
		return Hamming, nil
	case "hanning", "hann":
		return Hanning, nil
	case "flattop", "flat-top":
		return FlatTop, nil
	case "rectangle", "rectangular", "rect", "none":
		return Rectangle, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrWindow, s)
}

func (w Window) generator() func(int) []float64 {
	switch w {
	case Hanning:
		return window.Hann
	case FlatTop:
		return window.FlatTop
	case Rectangle:
		return window.Rectangular
	default:
		return window.Hamming
	}
}

// Coefficients returns the n-point window w. The first half is evaluated
// and mirrored, so c[i] == c[n-1-i] holds exactly.
func Coefficients(w Window, n int) []float32 {
	c := make([]float32, n)
	fillCoefficients(c, w)
	return c
}

func fillCoefficients(dst []float32, w Window) {
	n := len(dst)
	if n == 0 {
		return
	}
	src := w.generator()(n)
	for i := 0; i < n/2; i++ {
		v := float32(src[i])
		dst[i] = v
		dst[n-1-i] = v
	}
	if n%2 == 1 {
		dst[n/2] = float32(src[n/2])
	}
}
