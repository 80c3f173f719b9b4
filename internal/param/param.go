// Package param exposes the runtime settings of a capture instance as a
// closed set of integer parameters.
package param

import (
	"errors"
	"fmt"
	"strings"

	"github.com/0xlemi/tunebox/internal/note"
)

// ID names a parameter.
type ID int

const (
	ActiveLevel ID = iota
	PlayButtonEnable
	MaxNote
	MinNote
	Scale
	CorrectFrames
	SuppressFrames
	KeepFrames
	VolumeMeter
	MonitorEnable

	numIDs
)

// Errors returned by Get and Set.
var (
	ErrUnknownParam = errors.New("unknown parameter")
	ErrReadOnly     = errors.New("parameter is read-only")
	ErrOutOfRange   = errors.New("value out of range")
)

// Target is the settings surface of a capture instance.
type Target interface {
	ActiveLevel() int
	SetActiveLevel(int)
	PlayButtonEnabled() bool
	EnablePlayButton(bool)
	NoteRange() (lo, hi int)
	SetNoteRange(lo, hi int)
	Scale() note.Scale
	SetScale(note.Scale)
	Limits() (extend, suppress, keep int)
	SetLimits(extend, suppress, keep int)
	Volume() int
	MonitorEnabled() bool
	EnableMonitor(bool)
}

type entry struct {
	name    string
	usage   string
	lo, hi  int
	get     func(Target) int
	set     func(Target, int) // nil for read-only parameters
	boolean bool
}

const maxLevel = 1 << 16

var table = [numIDs]entry{
	ActiveLevel: {
		name: "active_level", usage: "volume at which the performer counts as playing",
		lo: 0, hi: maxLevel,
		get: Target.ActiveLevel,
		set: Target.SetActiveLevel,
	},
	PlayButtonEnable: {
		name: "play_button_enable", usage: "only perform while the play button is held",
		lo: 0, hi: 1, boolean: true,
		get: func(t Target) int { return b2i(t.PlayButtonEnabled()) },
		set: func(t Target, v int) { t.EnablePlayButton(v != 0) },
	},
	MaxNote: {
		name: "max_note", usage: "highest note performed",
		lo: note.Min, hi: note.Max,
		get: getMaxNote,
		set: setMaxNote,
	},
	MinNote: {
		name: "min_note", usage: "lowest note performed",
		lo: note.Min, hi: note.Max,
		get: getMinNote,
		set: setMinNote,
	},
	Scale: {
		name: "scale", usage: "12-bit pitch class mask, bit 0 = C",
		lo: 0, hi: int(note.ScaleAll),
		get: func(t Target) int { return int(t.Scale()) },
		set: func(t Target, v int) { t.SetScale(note.Scale(v)) },
	},
	CorrectFrames: {
		name: "correct_frames", usage: "frames an unrecognized pitch keeps the note sounding",
		lo: 0, hi: maxLevel,
		get: func(t Target) int { return limit(t, 0) },
		set: func(t Target, v int) { setLimit(t, 0, v) },
	},
	SuppressFrames: {
		name: "suppress_frames", usage: "frames a new sound is muted before its note is accepted",
		lo: 0, hi: maxLevel,
		get: func(t Target) int { return limit(t, 1) },
		set: func(t Target, v int) { setLimit(t, 1, v) },
	},
	KeepFrames: {
		name: "keep_frames", usage: "frames the note sustains after the sound stops",
		lo: 0, hi: maxLevel,
		get: func(t Target) int { return limit(t, 2) },
		set: func(t Target, v int) { setLimit(t, 2, v) },
	},
	VolumeMeter: {
		name: "volume_meter", usage: "volume of the last frame",
		get: Target.Volume,
	},
	MonitorEnable: {
		name: "monitor_enable", usage: "write the per-frame diagnostic stream",
		lo: 0, hi: 1, boolean: true,
		get: func(t Target) int { return b2i(t.MonitorEnabled()) },
		set: func(t Target, v int) { t.EnableMonitor(v != 0) },
	},
}

func getMinNote(t Target) int {
	lo, _ := t.NoteRange()
	return lo
}

func getMaxNote(t Target) int {
	_, hi := t.NoteRange()
	return hi
}

// The note range may end up inverted; the quantizer then rejects every
// note.
func setMinNote(t Target, v int) {
	_, hi := t.NoteRange()
	t.SetNoteRange(v, hi)
}

func setMaxNote(t Target, v int) {
	lo, _ := t.NoteRange()
	t.SetNoteRange(lo, v)
}

// limit and setLimit index the extend, suppress and keep limits.
func limit(t Target, i int) int {
	var l [3]int
	l[0], l[1], l[2] = t.Limits()
	return l[i]
}

func setLimit(t Target, i, v int) {
	var l [3]int
	l[0], l[1], l[2] = t.Limits()
	l[i] = v
	t.SetLimits(l[0], l[1], l[2])
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// IDs lists every parameter in enumeration order.
func IDs() []ID {
	ids := make([]ID, numIDs)
	for i := range ids {
		ids[i] = ID(i)
	}
	return ids
}

func (id ID) valid() bool {
	return id >= 0 && id < numIDs
}

func (id ID) String() string {
	if !id.valid() {
		return fmt.Sprintf("param(%d)", int(id))
	}
	return table[id].name
}

// Usage is a one-line description of the parameter.
func (id ID) Usage() string {
	if !id.valid() {
		return ""
	}
	return table[id].usage
}

// ReadOnly reports whether the parameter cannot be set.
func (id ID) ReadOnly() bool {
	return id.valid() && table[id].set == nil
}

// Boolean reports whether the parameter is an on/off switch.
func (id ID) Boolean() bool {
	return id.valid() && table[id].boolean
}

// Lookup finds a parameter by name. Dashes and underscores are
// interchangeable.
func Lookup(name string) (ID, bool) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i := range table {
		if table[i].name == name {
			return ID(i), true
		}
	}
	return 0, false
}

// Registry reads and writes the parameters of one Target.
type Registry struct {
	t Target
}

// New returns a registry for t.
func New(t Target) *Registry {
	return &Registry{t: t}
}

// IsAvailable reports whether id is a known parameter.
func (r *Registry) IsAvailable(id ID) bool {
	return id.valid()
}

// Get returns the current value of id.
func (r *Registry) Get(id ID) (int, error) {
	if !id.valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownParam, int(id))
	}
	return table[id].get(r.t), nil
}

// Set changes id to v. An out-of-range value leaves the parameter
// unchanged.
func (r *Registry) Set(id ID, v int) error {
	if !id.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownParam, int(id))
	}
	e := table[id]
	if e.set == nil {
		return fmt.Errorf("%w: %s", ErrReadOnly, e.name)
	}
	if v < e.lo || v > e.hi {
		return fmt.Errorf("%w: %s=%d, want %d..%d", ErrOutOfRange, e.name, v, e.lo, e.hi)
	}
	e.set(r.t, v)
	return nil
}

// Toggle flips a boolean parameter and returns the new value.
func (r *Registry) Toggle(id ID) (bool, error) {
	if !id.Boolean() {
		return false, fmt.Errorf("%w: %s is not a switch", ErrOutOfRange, id)
	}
	v, _ := r.Get(id)
	if err := r.Set(id, 1-v); err != nil {
		return false, err
	}
	return v == 0, nil
}

// Snapshot returns every parameter value, indexed by ID.
func (r *Registry) Snapshot() []int {
	out := make([]int, numIDs)
	for i := range table {
		out[i] = table[i].get(r.t)
	}
	return out
}
