package capture

import (
	"fmt"

	"github.com/0xlemi/tunebox/internal/note"
)

// The methods below are the runtime parameter surface used by the
// parameter registry. Values are stored as given; range checks belong to
// the caller.

func (s *Source) ActiveLevel() int {
	return s.cfg.ActiveLevel
}

func (s *Source) SetActiveLevel(level int) {
	s.cfg.ActiveLevel = level
}

func (s *Source) PlayButtonEnabled() bool {
	return s.cfg.PlayButtonEnable
}

func (s *Source) EnablePlayButton(on bool) {
	s.cfg.PlayButtonEnable = on
}

func (s *Source) NoteRange() (lo, hi int) {
	return s.cfg.MinNote, s.cfg.MaxNote
}

func (s *Source) SetNoteRange(lo, hi int) {
	s.cfg.MinNote, s.cfg.MaxNote = lo, hi
	s.quant.Min, s.quant.Max = lo, hi
}

func (s *Source) Scale() note.Scale {
	return s.cfg.Scale
}

func (s *Source) SetScale(sc note.Scale) {
	s.cfg.Scale = sc
	s.quant.Scale = sc
}

// Limits returns the extend, suppress and keep frame limits.
func (s *Source) Limits() (extend, suppress, keep int) {
	return s.hyst.ExtendFrames, s.hyst.SuppressFrames, s.hyst.KeepFrames
}

func (s *Source) SetLimits(extend, suppress, keep int) {
	s.cfg.ExtendFrames, s.cfg.SuppressFrames, s.cfg.KeepFrames = extend, suppress, keep
	s.hyst.ExtendFrames, s.hyst.SuppressFrames, s.hyst.KeepFrames = extend, suppress, keep
}

// Volume is the level meter: the volume of the last processed frame.
func (s *Source) Volume() int {
	return s.volume
}

func (s *Source) MonitorEnabled() bool {
	return s.monitorOn
}

// EnableMonitor switches the monitor stream. Switching it on writes the
// column header.
func (s *Source) EnableMonitor(on bool) {
	if on && !s.monitorOn {
		fmt.Fprintln(s.monitor, MonitorHeader)
	}
	s.monitorOn = on
}
