// Package detector picks the log format from the environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// LogFormat is the rendering used for log records.
type LogFormat int

const (
	// FormatAuto defers to DetectEnvironment.
	FormatAuto LogFormat = iota
	// FormatPretty writes colored, human-readable lines.
	FormatPretty
	// FormatJSON writes one JSON object per record.
	FormatJSON
)

func (f LogFormat) String() string {
	switch f {
	case FormatPretty:
		return "pretty"
	case FormatJSON:
		return "json"
	default:
		return "auto"
	}
}

// DetectEnvironment returns FormatJSON when stderr is not a terminal or a CI
// variable is set, and FormatPretty otherwise.
func DetectEnvironment() LogFormat {
	return detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv("CI"))
}

func detect(isTTY bool, ci string) LogFormat {
	isCI := ci == "true" || ci == "1"
	if !isTTY || isCI {
		return FormatJSON
	}
	return FormatPretty
}

// ResolveFormat applies the --log-format flag over the detected format.
// userFlag is one of "auto", "pretty", "json", or empty; anything else keeps autoDetected.
func ResolveFormat(autoDetected LogFormat, userFlag string) LogFormat {
	switch userFlag {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return autoDetected
	}
}
