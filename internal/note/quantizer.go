package note

// Threshold ratios, in percent of the distance between two adjacent scale
// notes. Moving away from the performed note requires crossing further than
// the midpoint, which leaves a dead zone around it.
const (
	NormalThreshold = 50
	UpThreshold     = 80
	DownThreshold   = 20
)

// Quantizer maps a frequency to the nearest note of a scale within a note
// range.
type Quantizer struct {
	Scale Scale
	Min   int
	Max   int
}

// NewQuantizer returns a chromatic quantizer over the full note range.
func NewQuantizer() Quantizer {
	return Quantizer{Scale: ScaleAll, Min: Min, Max: Max}
}

// Lookup quantizes freq, in decihertz, given the note currently performed
// (Invalid if none). It returns Invalid when the nearest scale note falls
// outside [q.Min, q.Max].
func (q Quantizer) Lookup(freq uint32, performed int) int {
	var current uint32
	if performed != Invalid {
		if e, ok := Lookup(performed); ok {
			current = e.Freq
		}
	}

	lo := -1
	for i := range table {
		hi := &table[i]
		if lo >= 0 {
			if !q.Scale.Contains(hi.Note) {
				continue
			}
			ratio := uint32(NormalThreshold)
			switch {
			case current == 0:
			case freq > current:
				ratio = UpThreshold
			default:
				ratio = DownThreshold
			}
			base := table[lo].Freq
			if freq < base+(hi.Freq-base)*ratio/100 {
				break
			}
		}
		lo = i
	}

	if lo < 0 {
		return Invalid
	}
	n := table[lo].Note
	if n < q.Min || n > q.Max {
		return Invalid
	}
	return n
}
