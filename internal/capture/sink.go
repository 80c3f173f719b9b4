package capture

import "fmt"

// EventKind distinguishes note-on from note-off.
type EventKind int

const (
	NoteOn EventKind = iota
	NoteOff
)

func (k EventKind) String() string {
	if k == NoteOff {
		return "off"
	}
	return "on"
}

// Event is a note event for the sound generator.
type Event struct {
	Kind     EventKind
	Note     int
	Velocity int
	Channel  int
	// Frame is the index of the frame that produced the event.
	Frame uint64
}

func (e Event) String() string {
	return fmt.Sprintf("note-%s %d vel=%d ch=%d", e.Kind, e.Note, e.Velocity, e.Channel)
}

// Sink receives note events. It is called synchronously from Process and
// must not block.
type Sink interface {
	Note(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

// Note calls f(e).
func (f SinkFunc) Note(e Event) {
	f(e)
}

type discard struct{}

func (discard) Note(Event) {}
