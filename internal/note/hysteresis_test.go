package note

import (
	"slices"
	"testing"
)

const X = Invalid

type frame struct {
	raw, volume int
}

func run(h *Hysteresis, activeLevel int, frames []frame) []int {
	out := make([]int, len(frames))
	performed := Invalid
	for i, f := range frames {
		performed = h.Step(f.raw, f.volume, activeLevel, performed)
		out[i] = performed
	}
	return out
}

func loud(raws ...int) []frame {
	fs := make([]frame, len(raws))
	for i, r := range raws {
		fs[i] = frame{raw: r, volume: 400}
	}
	return fs
}

func TestHysteresisScenarios(t *testing.T) {
	tests := []struct {
		name   string
		limits Hysteresis
		frames []frame
		want   []int
	}{
		{
			name:   "onset suppressed then invalid frames bridged",
			limits: Hysteresis{ExtendFrames: 5, SuppressFrames: 3, KeepFrames: 3},
			frames: loud(60, 60, 60, 60, X, X, 60),
			want:   []int{X, X, X, 60, 60, 60, 60},
		},
		{
			name:   "suppression overrides substitution",
			limits: Hysteresis{ExtendFrames: 5, SuppressFrames: 3, KeepFrames: 3},
			frames: loud(60, X, X, 60),
			want:   []int{X, X, X, 60},
		},
		{
			name:   "short silence sustains, long silence ends",
			limits: Hysteresis{ExtendFrames: 5, SuppressFrames: 3, KeepFrames: 3},
			frames: append(loud(60, 60, 60, 60),
				frame{X, 100}, frame{X, 100}, frame{X, 100}, frame{X, 100}),
			want: []int{X, X, X, 60, 60, 60, 60, X},
		},
		{
			name:   "two quiet frames then loud again",
			limits: Hysteresis{ExtendFrames: 5, SuppressFrames: 0, KeepFrames: 3},
			frames: []frame{{60, 400}, {X, 100}, {X, 100}, {62, 400}},
			want:   []int{60, 60, 60, 62},
		},
		{
			name:   "extend limit reached",
			limits: Hysteresis{ExtendFrames: 2, SuppressFrames: 0, KeepFrames: 0},
			frames: loud(64, X, X, X, X),
			want:   []int{64, 64, 64, X, X},
		},
		{
			name:   "no extension",
			limits: Hysteresis{ExtendFrames: 0, SuppressFrames: 0, KeepFrames: 3},
			frames: loud(64, X, 64),
			want:   []int{64, X, 64},
		},
		{
			name:   "all limits zero passes through",
			frames: []frame{{60, 400}, {X, 400}, {62, 10}, {X, 10}, {65, 300}},
			want:   []int{60, X, 62, X, 65},
		},
		{
			name:   "quiet frames are never suppressed",
			limits: Hysteresis{ExtendFrames: 5, SuppressFrames: 3, KeepFrames: 1},
			frames: []frame{{60, 100}, {62, 100}},
			want:   []int{X, 62},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.limits
			if got := run(&h, 300, tt.frames); !slices.Equal(got, tt.want) {
				t.Fatalf("performed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHysteresisCounters(t *testing.T) {
	h := NewHysteresis()
	h.Step(X, 400, 300, 60)
	h.Step(X, 400, 300, 60)
	if inv, act, sil := h.Counters(); inv != 2 || act != 2 || sil != 0 {
		t.Fatalf("counters = %d %d %d, want 2 2 0", inv, act, sil)
	}

	h.Step(X, 100, 300, 60)
	if inv, act, sil := h.Counters(); inv != 0 || act != 0 || sil != 1 {
		t.Fatalf("counters = %d %d %d, want 0 0 1", inv, act, sil)
	}

	h.Reset()
	if inv, act, sil := h.Counters(); inv != 0 || act != 0 || sil != 0 {
		t.Fatalf("counters after Reset = %d %d %d", inv, act, sil)
	}
}
