package bootstrap

import (
	"io"
	"strings"

	"github.com/fatih/color"
)

// Severity of a diagnostics message. Values match the debug-utils bits.
type Severity uint32

const (
	SeverityVerbose Severity = 0x00000001
	SeverityInfo    Severity = 0x00000010
	SeverityWarning Severity = 0x00000100
	SeverityError   Severity = 0x00001000
)

// Label is the prefix written for the most severe threshold s reaches.
func (s Severity) Label() string {
	switch {
	case s >= SeverityError:
		return "Error"
	case s >= SeverityWarning:
		return "Warning"
	case s >= SeverityInfo:
		return "Info"
	case s >= SeverityVerbose:
		return "Verbose"
	default:
		return "Unknown"
	}
}

// MessageType is a set of diagnostics categories.
type MessageType uint32

const (
	MessageGeneral     MessageType = 0x00000001
	MessageValidation  MessageType = 0x00000002
	MessagePerformance MessageType = 0x00000004
)

// Labels lists the categories set in t, in general, validation, performance order.
func (t MessageType) Labels() []string {
	var labels []string
	if t&MessageGeneral != 0 {
		labels = append(labels, "General")
	}
	if t&MessageValidation != 0 {
		labels = append(labels, "Validation")
	}
	if t&MessagePerformance != 0 {
		labels = append(labels, "Performance")
	}
	return labels
}

// DebugCallback receives diagnostics events. Returning true asks the API to
// abort the call that triggered the event.
type DebugCallback func(severity Severity, types MessageType, message string) bool

// FormatDiagnostic renders one diagnostics line without a trailing newline.
func FormatDiagnostic(severity Severity, types MessageType, message string) string {
	var b strings.Builder
	b.WriteString(severity.Label())
	b.WriteString(": ")
	b.WriteString(categoryPrefix(types))
	b.WriteString("Validation layer: ")
	b.WriteString(message)
	return b.String()
}

func categoryPrefix(types MessageType) string {
	var b strings.Builder
	for _, label := range types.Labels() {
		b.WriteString(label)
		b.WriteString(": ")
	}
	return b.String()
}

func severityColors() map[string]*color.Color {
	return map[string]*color.Color{
		"Error":   color.New(color.FgRed, color.Bold),
		"Warning": color.New(color.FgYellow),
		"Info":    color.New(color.FgCyan),
		"Verbose": color.New(color.FgWhite),
		"Unknown": color.New(color.FgMagenta),
	}
}

// DiagnosticWriter writes diagnostics lines to a stream.
type DiagnosticWriter struct {
	w      io.Writer
	colors map[string]*color.Color
}

// NewDiagnosticWriter returns a writer to w. With colorize the severity prefix
// is always coloured, whatever fatih/color detected for stdout; the caller
// decides whether w is a terminal.
func NewDiagnosticWriter(w io.Writer, colorize bool) *DiagnosticWriter {
	colors := severityColors()
	for _, c := range colors {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &DiagnosticWriter{w: w, colors: colors}
}

// Report writes one line and never asks for an abort. It satisfies DebugCallback.
func (d *DiagnosticWriter) Report(severity Severity, types MessageType, message string) bool {
	label := severity.Label()
	line := FormatDiagnostic(severity, types, message)
	io.WriteString(d.w, d.colors[label].Sprint(label)+line[len(label):]+"\n")
	return false
}
