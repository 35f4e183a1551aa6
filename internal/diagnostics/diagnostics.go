// Package diagnostics prints leveled, optionally colored CLI output.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Level represents the level of diagnostic output
type Level int

const (
	Silent Level = iota
	ErrorLevel
	WarnLevel
	InfoLevel
	VerboseLevel
	DebugLevel
)

// System provides structured, user-friendly output
type System struct {
	level     Level
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
}

// New creates a diagnostic system writing to stdout and stderr
func New(level Level) *System {
	return &System{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= VerboseLevel,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuiet creates a diagnostic system that only shows errors
func NewQuiet() *System {
	return New(ErrorLevel)
}

// NewVerbose creates a diagnostic system with full output
func NewVerbose() *System {
	return New(VerboseLevel)
}

// ForFlags picks the level from the usual --quiet and --verbose flags.
// Quiet wins.
func ForFlags(quiet, verbose bool) *System {
	switch {
	case quiet:
		return NewQuiet()
	case verbose:
		return NewVerbose()
	default:
		return New(InfoLevel)
	}
}

// SetOutput redirects both streams. Colors and timestamps are turned off,
// which keeps captured output stable.
func (d *System) SetOutput(out, errOut io.Writer) {
	d.output = out
	d.errorOut = errOut
	d.useColors = false
	d.showTime = false
}

// Level returns the configured level
func (d *System) Level() Level {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *System) Error(format string, args ...any) {
	if d.level >= ErrorLevel {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *System) Warn(format string, args ...any) {
	if d.level >= WarnLevel {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *System) Info(format string, args ...any) {
	if d.level >= InfoLevel {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *System) Success(format string, args ...any) {
	if d.level >= InfoLevel {
		d.writeMessage(d.output, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *System) Verbose(format string, args ...any) {
	if d.level >= VerboseLevel {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages
func (d *System) Debug(format string, args ...any) {
	if d.level >= DebugLevel {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Section creates a prominent section header
func (d *System) Section(title string) {
	if d.level >= InfoLevel {
		fmt.Fprintf(d.output, "%s%s\n", d.getIndent(), d.paint(color.FgCyan, title))
	}
}

// Subsection creates a subsection header
func (d *System) Subsection(title string) {
	if d.level >= InfoLevel {
		fmt.Fprintf(d.output, "\n%s%s:\n", d.getIndent(), title)
	}
}

// List outputs a bulleted list item
func (d *System) List(format string, args ...any) {
	if d.level >= InfoLevel {
		fmt.Fprintf(d.output, "%s- %s\n", d.getIndent(), fmt.Sprintf(format, args...))
	}
}

// Indent increases the indentation level
func (d *System) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *System) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Summary outputs a final summary, stats sorted by key
func (d *System) Summary(title string, stats map[string]any) {
	if d.level < InfoLevel {
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(d.output, "\n%s\n", title)
	for _, k := range keys {
		fmt.Fprintf(d.output, "   %s: %v\n", k, stats[k])
	}
}

func (d *System) writeMessage(w io.Writer, level string, attr color.Attribute, format string, args ...any) {
	var out strings.Builder
	out.WriteString(d.getIndent())

	if d.showTime {
		out.WriteString(time.Now().Format("15:04:05 "))
	}
	out.WriteString(d.paint(attr, "["+level+"]"))
	out.WriteString(" ")
	out.WriteString(fmt.Sprintf(format, args...))
	out.WriteString("\n")

	fmt.Fprint(w, out.String())
}

// paint colors s when colors are enabled
func (d *System) paint(attr color.Attribute, s string) string {
	if !d.useColors {
		return s
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(s)
}

func (d *System) getIndent() string {
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return !color.NoColor
}
