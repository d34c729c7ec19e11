package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Text forms shared by the parameter builders. Formatters receive plain
// values; parsers return plain values.

// PercentFormatter shows a 0-100 value as a whole percentage
func PercentFormatter(value float64) string {
	return fmt.Sprintf("%.0f%%", value)
}

// PercentParser accepts "30%" or "30"
func PercentParser(str string) (float64, error) {
	return parseFloat(strings.TrimSuffix(strings.TrimSpace(str), "%"))
}

// TimeFormatter shows milliseconds, switching to seconds from 1000 ms
func TimeFormatter(ms float64) string {
	if ms >= 1000 {
		return fmt.Sprintf("%.2f s", ms/1000)
	}
	return fmt.Sprintf("%.1f ms", ms)
}

// TimeParser accepts "250", "250 ms" or "0.25 s" and returns milliseconds
func TimeParser(str string) (float64, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	scale := 1.0
	switch {
	case strings.HasSuffix(str, "ms"):
		str = strings.TrimSuffix(str, "ms")
	case strings.HasSuffix(str, "s"):
		str = strings.TrimSuffix(str, "s")
		scale = 1000
	}
	v, err := parseFloat(str)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", str)
	}
	return v * scale, nil
}

var pitchClasses = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteFormatter shows a MIDI key as a note name, 60 being C4
func NoteFormatter(note float64) string {
	n := int(note)
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%s%d", pitchClasses[n%12], n/12-1)
}

// NoteParser accepts note names such as "C4", "f#2", "Bb-1" or a plain key
// number
func NoteParser(str string) (float64, error) {
	str = strings.TrimSpace(str)
	if v, err := parseFloat(str); err == nil {
		return v, nil
	}
	if str == "" {
		return 0, fmt.Errorf("empty note")
	}

	base := strings.Index("C D EF G A B", strings.ToUpper(str[:1]))
	if base < 0 {
		return 0, fmt.Errorf("unknown note name %q", str)
	}
	rest := str[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		base++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		base--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid octave in note %q", str)
	}
	return float64((octave+1)*12 + base), nil
}

// OnOffFormatter shows a toggle
func OnOffFormatter(value float64) string {
	if value > 0.5 {
		return "On"
	}
	return "Off"
}

// OnOffParser accepts on/off, true/false, yes/no and 1/0
func OnOffParser(str string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "on", "true", "yes", "1":
		return 1, nil
	case "off", "false", "no", "0":
		return 0, nil
	}
	return 0, fmt.Errorf("expected on or off, got %q", str)
}
