// Package app holds the services used by the autowire tests and examples.
package app

import (
	"fmt"
	"strings"
	"sync"
)

// Logger records messages in memory
type Logger struct {
	Name string

	mu    sync.Mutex
	lines []string
}

// NewLogger creates a named logger
func NewLogger(name string) *Logger {
	return &Logger{Name: name}
}

// Printf records a formatted line
func (l *Logger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines returns the recorded lines
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

type Widget struct {
	Label  string
	Copies int
}

type Gadget struct {
	Label string
}

// WidgetFactory produces widgets. Built counts the values produced so
// far.
type WidgetFactory struct {
	Prefix string
	Built  int
}

// Create returns a default widget
func (f *WidgetFactory) Create() *Widget {
	f.Built++
	return &Widget{Label: f.Prefix + "widget", Copies: 1}
}

// Build returns a gadget, not a widget
func (f *WidgetFactory) Build() *Gadget {
	f.Built++
	return &Gadget{Label: f.Prefix + "gadget"}
}

// Labeled returns a widget with the given label and number of copies
func (f *WidgetFactory) Labeled(label string, copies int) (*Widget, error) {
	if copies < 1 {
		return nil, fmt.Errorf("copies must be positive, got %d", copies)
	}
	f.Built++
	return &Widget{Label: f.Prefix + label, Copies: copies}, nil
}

// Mailer sends messages
type Mailer interface {
	Send(to, body string) error
}

// MemoryMailer keeps sent messages in memory
type MemoryMailer struct {
	mu   sync.Mutex
	Sent []string
}

// Send implements Mailer
func (m *MemoryMailer) Send(to, body string) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid recipient %q", to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, to+": "+body)
	return nil
}

// Dashboard declares its dependencies with references relative to this
// package.
type Dashboard struct {
	Logger *Logger `autowire:"" type:"Logger"`
	Widget *Widget `autowire:"factory=WidgetFactory::Labeled, dashboard, 2"`
	mailer Mailer  `autowire:""`
}

// Mailer returns the injected mailer
func (d *Dashboard) Mailer() Mailer {
	return d.mailer
}
