package main

import (
	"bytes"
	"flag"
	"path/filepath"
	"strings"
	"testing"

	"github.com/justyntemme/polysynth/pkg/config"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
)

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polysynth.json")
	cfg := config.Default()
	cfg.Voices = 4
	cfg.Waveform = "sine"
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var ef engineFlags
	ef.register(fs)
	if err := fs.Parse([]string{"-config", path, "-voices", "12", "-log", "debug"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := ef.load(fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Voices != 12 {
		t.Errorf("expected flag to set 12 voices, got %d", got.Voices)
	}
	if got.Waveform != "sine" {
		t.Errorf("expected unset flag to keep file waveform sine, got %q", got.Waveform)
	}
	if got.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", got.LogLevel)
	}
	if got.SampleRate != cfg.SampleRate {
		t.Errorf("expected sample rate %d, got %d", cfg.SampleRate, got.SampleRate)
	}
}

func TestFlagsWithoutConfigUseDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var ef engineFlags
	ef.register(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := ef.load(fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := config.Default()
	if got.Voices != def.Voices || got.Waveform != def.Waveform || got.BlockSize != def.BlockSize {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Default()
	cfg.LogLevel = "warn"

	log, closer, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()

	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected only the warning, got %q", buf.String())
	}
	if log.Level() != debug.LogLevelWarn {
		t.Errorf("expected warn level, got %v", log.Level())
	}

	cfg.LogLevel = "loud"
	if _, _, err := newLogger(cfg, &buf); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestCRLFWriter(t *testing.T) {
	var buf bytes.Buffer
	n, err := crlfWriter{&buf}.Write([]byte("a\nb\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Errorf("expected 4 bytes reported, got %d", n)
	}
	if buf.String() != "a\r\nb\r\n" {
		t.Errorf("expected CRLF line endings, got %q", buf.String())
	}
}
