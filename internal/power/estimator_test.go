package power

import (
	"errors"
	"math"
	"testing"
)

func newEstimator(t *testing.T, frameLen int, cfg Config) *Estimator {
	t.Helper()
	e, err := New(frameLen)
	if err != nil {
		t.Fatalf("New(%d): %v", frameLen, err)
	}
	if err := e.Begin(cfg); err != nil {
		t.Fatalf("Begin(%+v): %v", cfg, err)
	}
	return e
}

func ramp(start, n int) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(start + i)
	}
	return s
}

func TestCoefficientsSymmetric(t *testing.T) {
	for _, w := range []Window{Hamming, Hanning, FlatTop, Rectangle} {
		for _, n := range []int{2, 7, 64, 1536} {
			c := Coefficients(w, n)
			for i := range c {
				if c[i] != c[n-1-i] {
					t.Fatalf("%v n=%d: coef[%d]=%v != coef[%d]=%v", w, n, i, c[i], n-1-i, c[n-1-i])
				}
			}
		}
	}
}

func TestCoefficientsShape(t *testing.T) {
	const n = 65
	tests := []struct {
		w            Window
		edge, centre float64
	}{
		{Hamming, 0.08, 1},
		{Hanning, 0, 1},
		{FlatTop, -0.000421, 1},
		{Rectangle, 1, 1},
	}
	for _, tt := range tests {
		c := Coefficients(tt.w, n)
		if math.Abs(float64(c[0])-tt.edge) > 1e-3 {
			t.Errorf("%v: edge = %v, want %v", tt.w, c[0], tt.edge)
		}
		if math.Abs(float64(c[n/2])-tt.centre) > 1e-3 {
			t.Errorf("%v: centre = %v, want %v", tt.w, c[n/2], tt.centre)
		}
	}
}

func TestPowerNotReady(t *testing.T) {
	e := newEstimator(t, 8, Config{Window: Rectangle, Channels: 1})
	e.Put(ramp(1, 7))
	for i := 0; i < 3; i++ {
		if p := e.Power(0); p != 0 {
			t.Fatalf("power with 7 of 8 samples = %v, want 0", p)
		}
	}
	if e.Stored(0) != 7 {
		t.Fatalf("stored=%d after polling, want 7", e.Stored(0))
	}
}

func TestPowerConsumesOneFrame(t *testing.T) {
	e := newEstimator(t, 4, Config{Window: Rectangle, Channels: 1})
	if !e.Put(ramp(1, 10)) {
		t.Fatalf("put failed")
	}

	if p := e.Power(0); p != 1+4+9+16 {
		t.Fatalf("first frame power = %v, want 30", p)
	}
	if e.Stored(0) != 6 {
		t.Fatalf("stored=%d, want 6", e.Stored(0))
	}
	if p := e.Power(0); p != 25+36+49+64 {
		t.Fatalf("second frame power = %v, want 174", p)
	}
	if p := e.Power(0); p != 0 {
		t.Fatalf("third call with 2 samples left = %v, want 0", p)
	}
	if e.Stored(0) != 2 {
		t.Fatalf("stored=%d, want 2", e.Stored(0))
	}
}

func TestPowerOverlapCarriesTail(t *testing.T) {
	e := newEstimator(t, 4, Config{Window: Rectangle, Channels: 1, Overlap: 2})
	if e.Span() != 6 {
		t.Fatalf("span = %d, want 6", e.Span())
	}

	e.Put(ramp(1, 4))
	if p := e.Power(0); p != 30 {
		t.Fatalf("first span power = %v, want 30", p)
	}
	e.Put(ramp(5, 4))
	// span is 3 4 5 6 7 8
	if p := e.Power(0); p != 9+16+25+36+49+64 {
		t.Fatalf("second span power = %v, want 199", p)
	}
	want := []float64{3, 4, 5, 6, 7, 8}
	for i, v := range e.Frame(0) {
		if v != want[i] {
			t.Fatalf("frame = %v, want %v", e.Frame(0), want)
		}
	}
}

func TestPowerAppliesWindow(t *testing.T) {
	e := newEstimator(t, 16, Config{Window: Hanning, Channels: 1})
	samples := make([]int16, 16)
	for i := range samples {
		samples[i] = 1000
	}
	e.Put(samples)

	var want float64
	for _, c := range e.Coefficients() {
		want += float64(1000*c) * float64(1000*c)
	}
	got := float64(e.Power(0))
	if math.Abs(got-want)/want > 1e-5 {
		t.Fatalf("power = %v, want %v", got, want)
	}
}

func TestPutMultiChannel(t *testing.T) {
	e := newEstimator(t, 2, Config{Window: Rectangle, Channels: 2})
	if !e.Put([]int16{1, 10, 2, 20, 3, 30}) {
		t.Fatalf("put failed")
	}
	if e.Stored(0) != 3 || e.Stored(1) != 3 {
		t.Fatalf("stored = %d/%d, want 3/3", e.Stored(0), e.Stored(1))
	}
	if p := e.Power(0); p != 1+4 {
		t.Fatalf("left power = %v, want 5", p)
	}
	if p := e.Power(1); p != 100+400 {
		t.Fatalf("right power = %v, want 500", p)
	}
}

func TestPutFullNoSideEffects(t *testing.T) {
	e := newEstimator(t, 4, Config{Window: Rectangle, Channels: 1})
	capacity := e.Remaining(0)
	if !e.Put(make([]int16, capacity-1)) {
		t.Fatalf("put within capacity failed")
	}
	if e.Put(make([]int16, 2)) {
		t.Fatalf("put beyond capacity succeeded")
	}
	if e.Stored(0) != capacity-1 {
		t.Fatalf("stored=%d, want %d", e.Stored(0), capacity-1)
	}
}

func TestPutBeforeBegin(t *testing.T) {
	e, err := New(4)
	if err != nil {
		t.Fatal(err)
	}
	if e.Put(ramp(0, 4)) {
		t.Fatalf("put before Begin succeeded")
	}
	if p := e.Power(0); p != 0 {
		t.Fatalf("power before Begin = %v", p)
	}
}

func TestPowerInvalidChannel(t *testing.T) {
	e := newEstimator(t, 4, Config{Window: Rectangle, Channels: 1})
	e.Put(ramp(1, 4))
	if p := e.Power(1); p != 0 {
		t.Fatalf("power on unconfigured channel = %v", p)
	}
	if e.Frame(3) != nil {
		t.Fatalf("frame on unconfigured channel not nil")
	}
}

func TestBeginRejectsAndKeepsState(t *testing.T) {
	e := newEstimator(t, 8, Config{Window: Rectangle, Channels: 1, Overlap: 2})
	e.Put(ramp(1, 5))

	bad := []struct {
		cfg  Config
		want error
	}{
		{Config{Channels: 0}, ErrChannels},
		{Config{Channels: MaxChannels + 1}, ErrChannels},
		{Config{Channels: 1, Overlap: 5}, ErrOverlap},
		{Config{Channels: 1, Overlap: -1}, ErrOverlap},
		{Config{Channels: 1, Window: Window(9)}, ErrWindow},
	}
	for _, tt := range bad {
		if err := e.Begin(tt.cfg); !errors.Is(err, tt.want) {
			t.Errorf("Begin(%+v) = %v, want %v", tt.cfg, err, tt.want)
		}
	}
	if got := e.Config(); got.Overlap != 2 || got.Channels != 1 || got.Window != Rectangle {
		t.Fatalf("config changed to %+v", got)
	}
	if e.Stored(0) != 5 {
		t.Fatalf("stored=%d after rejected Begin, want 5", e.Stored(0))
	}
}

func TestBeginDiscardsBufferedState(t *testing.T) {
	e := newEstimator(t, 4, Config{Window: Rectangle, Channels: 1, Overlap: 2})
	e.Put(ramp(1, 6))
	e.Power(0)

	if err := e.Begin(Config{Window: Rectangle, Channels: 1, Overlap: 2}); err != nil {
		t.Fatal(err)
	}
	if e.Stored(0) != 0 {
		t.Fatalf("stored=%d after Begin, want 0", e.Stored(0))
	}
	e.Put(ramp(1, 4))
	if p := e.Power(0); p != 30 {
		t.Fatalf("power after Begin = %v, want 30 (no stale overlap)", p)
	}
}

func TestNewRejectsShortFrame(t *testing.T) {
	if _, err := New(1); !errors.Is(err, ErrFrameLength) {
		t.Fatalf("New(1) = %v, want ErrFrameLength", err)
	}
}

func TestParseWindow(t *testing.T) {
	for in, want := range map[string]Window{
		"hamming": Hamming, "Hann": Hanning, "flattop": FlatTop, "rect": Rectangle,
	} {
		got, err := ParseWindow(in)
		if err != nil || got != want {
			t.Errorf("ParseWindow(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseWindow("kaiser"); !errors.Is(err, ErrWindow) {
		t.Errorf("ParseWindow(kaiser) = %v", err)
	}
}
