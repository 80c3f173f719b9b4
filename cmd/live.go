package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/0xlemi/tunebox/internal/audio"
	"github.com/0xlemi/tunebox/internal/capture"
	"github.com/0xlemi/tunebox/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// The TUI redraw rate; frames in between are still processed.
const uiInterval = 50 * time.Millisecond

func newLiveCmd(opts *options) *cobra.Command {
	var logFile, monitorFile string
	cmd := &cobra.Command{
		Use:   "live",
		Short: "Listen to the default input device and show the performed note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd.Context(), opts, logFile, monitorFile)
		},
	}
	cmd.Flags().StringVar(&logFile, "log", "", "append log output and note events to this file")
	cmd.Flags().StringVar(&monitorFile, "monitor-file", "tunebox-monitor.txt", "where --monitor writes while the TUI is running")
	return cmd
}

func runLive(ctx context.Context, opts *options, logFile, monitorFile string) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}

	if logFile != "" {
		f, err := tea.LogToFile(logFile, "tunebox")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	src, err := capture.New(cfg, logEvents())
	if err != nil {
		return err
	}
	if opts.monitor {
		f, err := os.Create(monitorFile)
		if err != nil {
			return fmt.Errorf("open monitor file: %w", err)
		}
		defer f.Close()
		src.SetMonitorOutput(f)
		src.EnableMonitor(true)
	}

	capturer, err := audio.NewPortAudioCapturer(cfg.FrameLen, cfg.SampleRate, cfg.Channels)
	if err != nil {
		return fmt.Errorf("create audio capturer: %w", err)
	}
	capturer.SetAmplification(opts.gain)
	if err := capturer.Start(); err != nil {
		return fmt.Errorf("start audio capture: %w", err)
	}
	defer capturer.Stop()

	commands := make(chan ui.Command, 16)
	model := ui.NewModel(func(c ui.Command) {
		select {
		case commands <- c:
		default:
			log.Printf("command dropped, capture loop busy")
		}
	})
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		processLive(ctx, capturer, src, commands, p)
	}()

	p.Send(ui.StatusMsg(ui.StatusOf(src)))
	_, err = p.Run()
	cancel()
	<-done
	src.Release()
	return err
}

// processLive owns src: it applies UI commands between frames and forwards
// the latest frame to the program at most every uiInterval.
func processLive(ctx context.Context, c audio.Capturer, src *capture.Source, commands <-chan ui.Command, p *tea.Program) {
	var (
		last    capture.Frame
		pending bool
		sent    time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-commands:
			cmd(src)
			p.Send(ui.StatusMsg(ui.StatusOf(src)))
			continue
		default:
		}

		buf, err := c.GetBuffer()
		if errors.Is(err, audio.ErrNoData) {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			p.Send(ui.ErrMsg{Err: err})
			return
		}

		src.Feed(buf.Samples, func(f capture.Frame) {
			last, pending = f, true
		})
		if pending && time.Since(sent) >= uiInterval {
			p.Send(ui.FrameMsg{Frame: last, Status: ui.StatusOf(src)})
			pending, sent = false, time.Now()
		}
	}
}
