// Command polysynth renders Lua scores to WAV files and plays the synth
// live from the computer keyboard.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/justyntemme/polysynth/pkg/config"
	"github.com/justyntemme/polysynth/pkg/framework/debug"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	var err error
	switch sub {
	case "help", "-h", "--help":
		usage()
		return
	case "version", "-v", "--version":
		fmt.Printf("polysynth %s (config format %s)\n", version, config.CurrentVersion)
		return
	case "render":
		err = runRender(args)
	case "play":
		err = runPlay(args)
	case "params":
		err = runParams(args)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", sub)
		usage()
		os.Exit(1)
	}

	if err != nil {
		debug.Error("%s: %v", sub, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [OPTIONS]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "COMMANDS:\n")
	fmt.Fprintf(os.Stderr, "  render   Render a Lua score to a WAV file\n")
	fmt.Fprintf(os.Stderr, "  play     Play live from the computer keyboard\n")
	fmt.Fprintf(os.Stderr, "  params   List engine parameters\n")
	fmt.Fprintf(os.Stderr, "  version  Show version information\n")
	fmt.Fprintf(os.Stderr, "\nEXAMPLES:\n")
	fmt.Fprintf(os.Stderr, "  %s render -config polysynth.json -o song.wav song.lua\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s play -backend oto -waveform square\n", os.Args[0])
}

// engineFlags are the settings every subcommand can override on top of
// the config file.
type engineFlags struct {
	configPath string
	voices     int
	waveform   string
	sampleRate int
	blockSize  int
	logLevel   string
	logFile    string
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "config file (JSON)")
	fs.IntVar(&f.voices, "voices", 0, "polyphony override")
	fs.StringVar(&f.waveform, "waveform", "", "waveform override: sine, square, sawtooth, triangle")
	fs.IntVar(&f.sampleRate, "rate", 0, "sample rate override")
	fs.IntVar(&f.blockSize, "block", 0, "block size override")
	fs.StringVar(&f.logLevel, "log", "", "log level override: debug, info, warn, error, off")
	fs.StringVar(&f.logFile, "logfile", "", "append log output to this file")
}

// load reads the config file, or the defaults when none was given, and
// applies the flags that were set on the command line.
func (f *engineFlags) load(fs *flag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}
	f.override(fs, &cfg)
	return cfg, nil
}

func (f *engineFlags) override(fs *flag.FlagSet, cfg *config.Config) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "voices":
			cfg.Voices = f.voices
		case "waveform":
			cfg.Waveform = f.waveform
		case "rate":
			cfg.SampleRate = f.sampleRate
		case "block":
			cfg.BlockSize = f.blockSize
		case "log":
			cfg.LogLevel = f.logLevel
		case "logfile":
			cfg.LogFile = f.logFile
		}
	})
}

// newLogger builds the logger described by cfg. The returned closer
// releases the log file, if any.
func newLogger(cfg config.Config, stderr io.Writer) (*debug.Logger, io.Closer, error) {
	level, err := debug.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var (
		log    *debug.Logger
		closer io.Closer = io.NopCloser(nil)
	)
	if cfg.LogFile != "" {
		log, closer, err = debug.NewFileLogger(cfg.LogFile, "polysynth", debug.DefaultFlags)
		if err != nil {
			return nil, nil, err
		}
	} else {
		log = debug.New(stderr, "polysynth", debug.FlagLevel|debug.FlagPrefix)
	}
	log.SetLevel(level)
	return log, closer, nil
}
