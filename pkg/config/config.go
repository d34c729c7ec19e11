// Package config loads the polysynth.json engine settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	semver "github.com/Masterminds/semver/v3"
)

// CurrentVersion is the config format version written by this build.
const CurrentVersion = "1.0.0"

// SupportedVersions is the range of config versions Load accepts.
const SupportedVersions = ">= 1.0.0, < 2.0.0"

// ErrUnsupportedVersion is returned for a config whose version falls
// outside SupportedVersions.
var ErrUnsupportedVersion = errors.New("unsupported config version")

// Config holds every engine setting. Values are clamped by the engine,
// not here.
type Config struct {
	Version    string    `json:"version"`
	SampleRate int       `json:"sample_rate"`
	BlockSize  int       `json:"block_size"`
	Voices     int       `json:"voices"`
	Waveform   string    `json:"waveform"`
	Envelope   Envelope  `json:"envelope"`
	GlideMs    float64   `json:"glide_ms"`
	Gain       float64   `json:"gain"`
	Echo       Echo      `json:"echo"`
	Output     Output    `json:"output"`
	LFO        LFO       `json:"lfo"`
	Tempo      float64   `json:"tempo"`
	Transpose  Transpose `json:"transpose"`
	LogLevel   string    `json:"log_level"`
	LogFile    string    `json:"log_file,omitempty"`
}

// Envelope holds ADSR times in seconds and the sustain level.
type Envelope struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

type Echo struct {
	Enabled  bool    `json:"enabled"`
	Feedback float64 `json:"feedback"`
	Wet      float64 `json:"wet"`
}

type Output struct {
	Volume  float64 `json:"volume"`
	Muted   bool    `json:"muted"`
	Backend string  `json:"backend"`
}

// LFO configures the tempo-synced modulator. Target names the parameter
// it modulates: none, gain, volume or echo_wet.
type LFO struct {
	Enabled       bool    `json:"enabled"`
	BeatsPerCycle float64 `json:"beats_per_cycle"`
	Shape         string  `json:"shape"`
	PhaseOffset   float64 `json:"phase_offset"`
	Depth         float64 `json:"depth"`
	Offset        float64 `json:"offset"`
	Bipolar       bool    `json:"bipolar"`
	Target        string  `json:"target"`
}

type Transpose struct {
	Semitones   int  `json:"semitones"`
	Low         int  `json:"low"`
	High        int  `json:"high"`
	PassNonNote bool `json:"pass_non_note"`
}

// Default returns the engine defaults.
func Default() Config {
	return Config{
		Version:    CurrentVersion,
		SampleRate: 48000,
		BlockSize:  512,
		Voices:     8,
		Waveform:   "sawtooth",
		Envelope: Envelope{
			Attack:  0.005,
			Decay:   0.12,
			Sustain: 0.7,
			Release: 0.12,
		},
		GlideMs: 0,
		Gain:    0.5,
		Echo: Echo{
			Feedback: 0.3,
			Wet:      0.3,
		},
		Output: Output{
			Volume:  0.8,
			Backend: "oto",
		},
		LFO: LFO{
			BeatsPerCycle: 1,
			Shape:         "sine",
			Bipolar:       true,
			Target:        "none",
		},
		Tempo: 120,
		Transpose: Transpose{
			Low:         0,
			High:        127,
			PassNonNote: true,
		},
		LogLevel: "info",
	}
}

// Load reads path and merges it over Default. Fields missing from the file
// keep their defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON document over Default and validates its version.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the version and replaces unusable stream settings with
// their defaults.
func (c *Config) Validate() error {
	if err := CheckVersion(c.Version); err != nil {
		return err
	}
	def := Default()
	if c.SampleRate <= 0 {
		c.SampleRate = def.SampleRate
	}
	if c.BlockSize <= 0 {
		c.BlockSize = def.BlockSize
	}
	return nil
}

// CheckVersion reports ErrUnsupportedVersion unless version satisfies
// SupportedVersions. An empty version is treated as CurrentVersion.
func CheckVersion(version string) error {
	if version == "" {
		version = CurrentVersion
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, version, err)
	}
	constraint, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("invalid constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (want %s)", ErrUnsupportedVersion, v, SupportedVersions)
	}
	return nil
}

// Save writes c to path as indented JSON.
func Save(path string, c Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
