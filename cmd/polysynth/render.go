package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justyntemme/polysynth/pkg/dsp/analysis"
	"github.com/justyntemme/polysynth/pkg/engine"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
	"github.com/justyntemme/polysynth/pkg/output"
	"github.com/justyntemme/polysynth/pkg/score"
)

func runRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	var ef engineFlags
	ef.register(fs)
	out := fs.String("o", "out.wav", "output WAV file")
	bits := fs.Int("bits", 16, "WAV bit depth: 16 or 24")
	tail := fs.Duration("tail", 2*time.Second, "silence rendered after the last event")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: polysynth render [OPTIONS] <score.lua>\n\nOPTIONS:\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected exactly one score file")
	}

	cfg, err := ef.load(fs)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prof := debug.NewProfiler()

	var s *score.Score
	err = prof.Time("parse", func() error {
		var err error
		s, err = score.Load(ctx, fs.Arg(0))
		return err
	})
	if err != nil {
		return err
	}
	log.Info("loaded %s: %d events over %.2fs", fs.Arg(0), len(s.Events), s.Length())

	eng, err := engine.New(cfg, log)
	if err != nil {
		return err
	}

	var samples []float32
	err = prof.Time("render", func() error {
		var err error
		samples, err = score.Render(ctx, eng, s, cfg.BlockSize, tail.Seconds())
		return err
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", fs.Arg(0), err)
	}

	err = prof.Time("write", func() error {
		w, err := output.CreateWAV(*out, cfg.SampleRate, *bits)
		if err != nil {
			return err
		}
		if err := w.Write(samples); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}

	stats := eng.Stats()
	if stats.Render.Overruns > 0 {
		log.Warn("%d of %d blocks took longer than real time", stats.Render.Overruns, stats.Render.Blocks)
	}
	if stats.DroppedEvents > 0 {
		log.Warn("%d events dropped on a full queue", stats.DroppedEvents)
	}
	log.Debug("render %s", stats.Render)
	log.Debug("timings:\n%s", prof.Report())

	fmt.Printf("wrote %s: %.2fs at %d Hz, %d-bit\n", *out, float64(len(samples))/float64(cfg.SampleRate), cfg.SampleRate, *bits)
	summarize(samples, float64(cfg.SampleRate), tail.Seconds())
	return nil
}

// summarize prints the level and pitch of the rendered audio. The tail is
// left out of the pitch estimate so it reflects the played notes.
func summarize(samples []float32, sampleRate, tail float64) {
	peak := analysis.NewPeakMeter(sampleRate)
	peak.Process(samples)

	rms := analysis.NewRMSMeter(len(samples))
	rms.Process(samples)

	fmt.Printf("peak %.1f dBFS, rms %.1f dBFS\n", peak.HoldDB(), rms.RMSDB())

	body := samples
	if n := len(samples) - int(tail*sampleRate); n > 0 {
		body = samples[:n]
	}
	freq, err := analysis.DominantFrequency(body, sampleRate)
	switch {
	case errors.Is(err, analysis.ErrTooShort):
		fmt.Println("dominant frequency: too short to measure")
	case err != nil:
		fmt.Printf("dominant frequency: %v\n", err)
	default:
		fmt.Printf("dominant frequency %.1f Hz\n", freq)
	}
}
