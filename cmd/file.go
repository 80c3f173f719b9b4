package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/0xlemi/tunebox/internal/audio"
	"github.com/0xlemi/tunebox/internal/capture"
	"github.com/0xlemi/tunebox/internal/note"
	"github.com/spf13/cobra"
)

func newFileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "file <path.wav>",
		Short: "Process a WAV file and print the note events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return runFile(f, opts, cmd.OutOrStdout())
		},
	}
}

// runFile replays a WAV stream through a capture instance. The sample rate
// and channel count come from the file.
func runFile(r io.Reader, opts *options, out io.Writer) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	capturer, err := audio.NewWavCapturer(r, cfg.FrameLen)
	if err != nil {
		return err
	}
	cfg.SampleRate = capturer.SampleRate()
	cfg.Channels = capturer.Channels()

	sink := capture.SinkFunc(func(e capture.Event) {
		fmt.Fprintf(out, "%d %s %s %d\n", e.Frame, e.Kind, note.Name(e.Note), e.Velocity)
	})
	src, err := capture.New(cfg, sink)
	if err != nil {
		return err
	}
	if opts.monitor {
		src.SetMonitorOutput(out)
		src.EnableMonitor(true)
	}

	capturer.SetAmplification(opts.gain)
	if err := capturer.Start(); err != nil {
		return err
	}
	defer capturer.Stop()

	for {
		buf, err := capturer.GetBuffer()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		src.Feed(buf.Samples, nil)
	}
	src.Release()
	return nil
}
