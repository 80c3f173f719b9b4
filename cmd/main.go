package main

import (
	"fmt"
	"log"
	"os"

	"github.com/0xlemi/tunebox/internal/capture"
	"github.com/0xlemi/tunebox/internal/note"
	"github.com/0xlemi/tunebox/internal/power"
	"github.com/spf13/cobra"
)

// options holds the flags shared by every subcommand.
type options struct {
	activeLevel    int
	scale          string
	minNote        int
	maxNote        int
	correctFrames  int
	suppressFrames int
	keepFrames     int
	window         string
	frameLen       int
	overlap        int
	channels       int
	sampleRate     int
	playButton     bool
	monitor        bool
	gain           float32
}

func (o *options) register(cmd *cobra.Command) {
	def := capture.DefaultConfig()
	f := cmd.PersistentFlags()
	f.IntVar(&o.activeLevel, "active-level", def.ActiveLevel, "volume at which the performer counts as playing")
	f.StringVar(&o.scale, "scale", "chromatic", "scale name, name:root or 12-bit mask (see 'scales')")
	f.IntVar(&o.minNote, "min-note", def.MinNote, "lowest note performed")
	f.IntVar(&o.maxNote, "max-note", def.MaxNote, "highest note performed")
	f.IntVar(&o.correctFrames, "correct-frames", def.ExtendFrames, "frames an unrecognized pitch keeps the note sounding")
	f.IntVar(&o.suppressFrames, "suppress-frames", def.SuppressFrames, "frames a new sound is muted before its note is accepted")
	f.IntVar(&o.keepFrames, "keep-frames", def.KeepFrames, "frames the note sustains after the sound stops")
	f.StringVar(&o.window, "window", def.Window.String(), "analysis window: hamming, hanning, flattop or rectangle")
	f.IntVar(&o.frameLen, "frame", def.FrameLen, "frame length in samples")
	f.IntVar(&o.overlap, "overlap", -1, "samples of the previous frame prepended to each analysis (default frame/2)")
	f.IntVar(&o.channels, "channels", def.Channels, "input channels")
	f.IntVar(&o.sampleRate, "sample-rate", def.SampleRate, "input sample rate in Hz")
	f.BoolVar(&o.playButton, "play-button", false, "only perform while the play button is held")
	f.BoolVar(&o.monitor, "monitor", false, "write the per-frame diagnostic stream")
	f.Float32Var(&o.gain, "gain", 1, "input amplification")
}

// config turns the flags into a capture configuration.
func (o *options) config() (capture.Config, error) {
	cfg := capture.DefaultConfig()

	w, err := power.ParseWindow(o.window)
	if err != nil {
		return cfg, err
	}
	sc, err := note.ParseScale(o.scale)
	if err != nil {
		return cfg, err
	}

	cfg.SampleRate = o.sampleRate
	cfg.FrameLen = o.frameLen
	cfg.Window = w
	cfg.Channels = o.channels
	cfg.Overlap = o.overlap
	if cfg.Overlap < 0 {
		cfg.Overlap = o.frameLen / 2
	}
	cfg.ActiveLevel = o.activeLevel
	cfg.PlayButtonEnable = o.playButton
	cfg.MinNote = o.minNote
	cfg.MaxNote = o.maxNote
	cfg.Scale = sc
	cfg.ExtendFrames = o.correctFrames
	cfg.SuppressFrames = o.suppressFrames
	cfg.KeepFrames = o.keepFrames
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "tunebox",
		Short:         "Turn a monophonic audio input into note events",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(root)

	live := newLiveCmd(opts)
	root.RunE = live.RunE
	root.AddCommand(live, newFileCmd(opts), newScalesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// logEvents returns a sink that logs every note event.
func logEvents() capture.Sink {
	return capture.SinkFunc(func(e capture.Event) {
		log.Printf("frame %d: %s", e.Frame, e)
	})
}
