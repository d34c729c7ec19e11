package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/polysynth/pkg/config"
	"github.com/justyntemme/polysynth/pkg/engine"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
	"github.com/justyntemme/polysynth/pkg/keyboard"
	"github.com/justyntemme/polysynth/pkg/output"
)

const statsInterval = 5 * time.Second

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	var ef engineFlags
	ef.register(fs)
	backend := fs.String("backend", "", "output backend (default from config): oto, portaudio, null")
	hold := fs.Duration("hold", keyboard.DefaultHold, "how long each key press sounds")
	watch := fs.Bool("watch", true, "reload the config file when it changes")
	_ = fs.Parse(args)

	cfg, err := ef.load(fs)
	if err != nil {
		return err
	}
	if *backend != "" {
		cfg.Output.Backend = *backend
	}

	// Raw mode turns off output post-processing, so bare newlines would
	// not return the cursor.
	restore, err := keyboard.MakeRaw(os.Stdin)
	if err != nil {
		return fmt.Errorf("raw terminal: %w", err)
	}
	defer restore()

	log, closer, err := newLogger(cfg, crlfWriter{os.Stderr})
	if err != nil {
		return err
	}
	defer closer.Close()

	eng, err := engine.New(cfg, log)
	if err != nil {
		return err
	}

	player, err := output.Open(cfg.Output.Backend, eng, cfg.SampleRate, cfg.BlockSize)
	if err != nil {
		return fmt.Errorf("open %s output: %w", cfg.Output.Backend, err)
	}
	defer player.Close()
	if err := player.Start(); err != nil {
		return fmt.Errorf("start %s output: %w", cfg.Output.Backend, err)
	}
	log.Info("playing through %s at %d Hz, %d voices", cfg.Output.Backend, cfg.SampleRate, cfg.Voices)

	kb := keyboard.New(eng, *hold, log)
	defer kb.Close()
	fmt.Fprint(os.Stderr, keyboard.Help()+"\r\n")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		// Quitting from the keyboard ends the session.
		defer cancel()
		return kb.Run(gctx, os.Stdin)
	})
	if ef.configPath != "" && *watch {
		g.Go(func() error {
			return config.Watch(gctx, ef.configPath, func(next config.Config, err error) {
				reload(log, eng, fs, &ef, cfg, next, err)
			})
		})
	}
	g.Go(func() error {
		reportStats(gctx, log, eng)
		return nil
	})

	err = g.Wait()
	stats := eng.Stats()
	log.Info("stopped after %d blocks (%s)", stats.Blocks, stats.Render)
	return err
}

// reload applies a changed config file as parameter changes. Settings
// fixed when the stream opened are kept.
func reload(log *debug.Logger, eng *engine.Engine, fs *flag.FlagSet, ef *engineFlags, current, next config.Config, err error) {
	if err != nil {
		log.Warn("config reload: %v", err)
		return
	}
	ef.override(fs, &next)
	if next.SampleRate != current.SampleRate || next.BlockSize != current.BlockSize {
		log.Warn("sample rate and block size changes need a restart")
	}
	if level, err := debug.ParseLevel(next.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if err := eng.ApplyConfig(next); err != nil {
		log.Warn("config reload: %v", err)
	}
	log.Info("config reloaded")
}

// reportStats warns about new render overruns and dropped events until
// ctx is done.
func reportStats(ctx context.Context, log *debug.Logger, eng *engine.Engine) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	var last engine.Stats
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		s := eng.Stats()
		if n := s.Render.Overruns - last.Render.Overruns; n > 0 {
			log.Warn("%d render overruns in the last %s (load %.1f%%)", n, statsInterval, s.Render.Load*100)
		}
		if n := s.DroppedEvents - last.DroppedEvents; n > 0 {
			log.Warn("%d events dropped on a full queue", n)
		}
		log.Debug("%d/%d voices active, peak %.3f", s.ActiveVoices, s.Polyphony, eng.Peak())
		last = s
	}
}

type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
