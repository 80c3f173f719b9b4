package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/0xlemi/tunebox/internal/capture"
	"github.com/0xlemi/tunebox/internal/note"
	"github.com/0xlemi/tunebox/internal/power"
	"github.com/spf13/cobra"
)

func sineWav(freq float64, rate, n int) []byte {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	var data bytes.Buffer
	binary.Write(&data, binary.LittleEndian, samples)

	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("RIFF")
	binary.Write(&b, le, uint32(36+data.Len()))
	b.WriteString("WAVEfmt ")
	binary.Write(&b, le, []uint32{16})
	binary.Write(&b, le, []uint16{1, 1})
	binary.Write(&b, le, []uint32{uint32(rate), uint32(rate * 2)})
	binary.Write(&b, le, []uint16{2, 16})
	b.WriteString("data")
	binary.Write(&b, le, uint32(data.Len()))
	b.Write(data.Bytes())
	return b.Bytes()
}

func parseFlags(t *testing.T, args ...string) *options {
	t.Helper()
	opts := &options{}
	cmd := &cobra.Command{Use: "tunebox"}
	opts.register(cmd)
	if err := cmd.PersistentFlags().Parse(args); err != nil {
		t.Fatal(err)
	}
	return opts
}

func TestOptionsConfig(t *testing.T) {
	opts := parseFlags(t, "--scale", "major:D", "--window", "hann", "--frame", "512",
		"--min-note", "40", "--max-note", "90", "--correct-frames", "2", "--play-button")
	cfg, err := opts.config()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scale != note.ScaleMajor.Transpose(2) || cfg.Window != power.Hanning {
		t.Fatalf("scale=%s window=%s", cfg.Scale, cfg.Window)
	}
	if cfg.FrameLen != 512 || cfg.Overlap != 256 {
		t.Fatalf("frame=%d overlap=%d", cfg.FrameLen, cfg.Overlap)
	}
	if cfg.MinNote != 40 || cfg.MaxNote != 90 || cfg.ExtendFrames != 2 || !cfg.PlayButtonEnable {
		t.Fatalf("config = %+v", cfg)
	}

	defaults, err := parseFlags(t).config()
	if err != nil {
		t.Fatal(err)
	}
	if defaults != capture.DefaultConfig() {
		t.Fatalf("defaults = %+v, want %+v", defaults, capture.DefaultConfig())
	}

	if _, err := parseFlags(t, "--scale", "dorian").config(); err == nil {
		t.Fatal("unknown scale accepted")
	}
	if _, err := parseFlags(t, "--window", "kaiser").config(); err == nil {
		t.Fatal("unknown window accepted")
	}
}

func TestRunFile(t *testing.T) {
	opts := parseFlags(t)
	var out bytes.Buffer
	wav := sineWav(440, 48000, 20*capture.DefaultFrameLen)
	if err := runFile(bytes.NewReader(wav), opts, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output:\n%s", out.String())
	}
	if !strings.Contains(lines[0], " on A4 ") || !strings.Contains(lines[1], " off A4 ") {
		t.Fatalf("events = %q", lines)
	}
}

func TestRunFileMonitor(t *testing.T) {
	opts := parseFlags(t, "--monitor")
	var out bytes.Buffer
	wav := sineWav(440, 48000, 4*capture.DefaultFrameLen)
	if err := runFile(bytes.NewReader(wav), opts, &out); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if lines[0] != capture.MonitorHeader || len(lines) < 5 {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestPrintScales(t *testing.T) {
	var out bytes.Buffer
	printScales(&out)
	s := out.String()
	if !strings.Contains(s, "major") || !strings.Contains(s, " C D E F G A B\n") {
		t.Fatalf("scales:\n%s", s)
	}
}
