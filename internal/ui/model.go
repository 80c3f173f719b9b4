package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xlemi/tunebox/internal/capture"
	"github.com/0xlemi/tunebox/internal/note"
	"github.com/0xlemi/tunebox/internal/param"
	"github.com/0xlemi/tunebox/internal/pitch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	meterWidth   = 40
	levelStep    = 25
	tickInterval = 100 * time.Millisecond
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	meterOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	meterOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))

	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}
)

// Command runs against the capture instance on the goroutine that owns it.
type Command func(s *capture.Source)

// Status is the settings part of a capture instance shown on screen.
type Status struct {
	ActiveLevel   int
	Scale         note.Scale
	MinNote       int
	MaxNote       int
	ButtonEnabled bool
	Button        bool
	Monitor       bool
}

// StatusOf reads the displayed settings from s.
func StatusOf(s *capture.Source) Status {
	lo, hi := s.NoteRange()
	return Status{
		ActiveLevel:   s.ActiveLevel(),
		Scale:         s.Scale(),
		MinNote:       lo,
		MaxNote:       hi,
		ButtonEnabled: s.PlayButtonEnabled(),
		Button:        s.Button(),
		Monitor:       s.MonitorEnabled(),
	}
}

// FrameMsg carries one processed frame and the settings it ran with.
type FrameMsg struct {
	Frame  capture.Frame
	Status Status
}

// StatusMsg updates the settings without a new frame.
type StatusMsg Status

// ErrMsg reports a capture failure. The model keeps running.
type ErrMsg struct{ Err error }

// TickMsg represents a timer tick
type TickMsg time.Time

// Model represents the UI state
type Model struct {
	send   func(Command)
	frame  capture.Frame
	input  pitch.Note
	status Status
	seen   bool
	err    error
	now    time.Time
	width  int
	height int
}

// NewModel creates a UI model. send delivers commands to the capture loop;
// it must not block.
func NewModel(send func(Command)) Model {
	if send == nil {
		send = func(Command) {}
	}
	return Model{send: send, frame: capture.Frame{Note: note.Invalid}}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return tick()
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.send(toggleButton)
			m.status.Button = !m.status.Button
		case "m":
			m.send(toggleParam(param.MonitorEnable))
			m.status.Monitor = !m.status.Monitor
		case "b":
			m.send(toggleParam(param.PlayButtonEnable))
			m.status.ButtonEnabled = !m.status.ButtonEnabled
		case "+", "=", "up":
			m.status.ActiveLevel = m.status.ActiveLevel + levelStep
			m.send(setParam(param.ActiveLevel, m.status.ActiveLevel))
		case "-", "down":
			m.status.ActiveLevel = max(m.status.ActiveLevel-levelStep, 0)
			m.send(setParam(param.ActiveLevel, m.status.ActiveLevel))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case FrameMsg:
		m.frame = msg.Frame
		m.status = msg.Status
		m.input = pitch.FrequencyToNote(msg.Frame.Frequency)
		m.seen = true

	case StatusMsg:
		m.status = Status(msg)

	case ErrMsg:
		m.err = msg.Err
	}

	return m, nil
}

func toggleButton(s *capture.Source) {
	s.SetButton(!s.Button())
}

func toggleParam(id param.ID) Command {
	return func(s *capture.Source) {
		param.New(s).Toggle(id)
	}
}

// Out-of-range values are dropped by the registry.
func setParam(id param.ID, v int) Command {
	return func(s *capture.Source) {
		param.New(s).Set(id, v)
	}
}

// noteBox renders a note in its colour. Sharps are split between the colour
// of their natural and that of the next natural up.
func noteBox(n int) string {
	class := note.ClassName(n)
	text := fmt.Sprintf("%s%d", class, note.Octave(n))
	if !strings.HasSuffix(class, "#") {
		return lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(noteColors[class])).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Padding(2, 4).
			Render(text)
	}

	base := class[:1]
	next := note.ClassName(n + 1)
	half := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		BorderTop(true).
		BorderBottom(true).
		PaddingTop(2).
		PaddingBottom(2)
	left := half.
		Background(lipgloss.Color(noteColors[base])).
		BorderLeft(true).
		BorderRight(false).
		PaddingLeft(2).
		PaddingRight(1)
	right := half.
		Background(lipgloss.Color(noteColors[next])).
		BorderLeft(false).
		BorderRight(true).
		PaddingLeft(1).
		PaddingRight(2)
	return lipgloss.JoinHorizontal(lipgloss.Top, left.Render(base), right.Render(text[1:]))
}

// meter draws the volume on a scale of twice the active level, with a mark
// at the active level.
func meter(volume, activeLevel int) string {
	full := max(2*activeLevel, 1)
	filled := min(volume*meterWidth/full, meterWidth)
	mark := meterWidth / 2

	var b strings.Builder
	for i := 0; i < meterWidth; i++ {
		switch {
		case i == mark:
			b.WriteString(infoStyle.Render("|"))
		case i < filled:
			b.WriteString(meterOnStyle.Render("="))
		default:
			b.WriteString(meterOffStyle.Render("-"))
		}
	}
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TuneBox"))
	b.WriteString("\n")

	switch {
	case !m.seen:
		b.WriteString(infoStyle.Render("Waiting for audio..."))
	case m.frame.Note == note.Invalid:
		b.WriteString(infoStyle.Render("Listening..."))
	default:
		b.WriteString(noteBox(m.frame.Note))
	}
	b.WriteString("\n\n")

	if m.frame.Frequency > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Input: %.2f Hz (%s%d %+.1f cents)",
			m.frame.Frequency, m.input.Name, m.input.Octave, m.input.Cents)))
	} else {
		b.WriteString(infoStyle.Render("Input: --"))
	}
	b.WriteString("\n")
	b.WriteString(meter(m.frame.Volume, m.status.ActiveLevel))
	b.WriteString(infoStyle.Render(fmt.Sprintf(" %d / %d", m.frame.Volume, m.status.ActiveLevel)))
	b.WriteString("\n\n")

	button := "disabled"
	if m.status.ButtonEnabled {
		button = "released"
		if m.status.Button {
			button = "held"
		}
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("Scale: %s | Range: %s..%s | Button: %s | Monitor: %s",
		m.status.Scale, note.Name(m.status.MinNote), note.Name(m.status.MaxNote),
		button, onOff(m.status.Monitor))))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	}

	b.WriteString("\n\n")
	b.WriteString(infoStyle.Render("q quit | space button | b button mode | m monitor | +/- active level"))
	return b.String()
}
