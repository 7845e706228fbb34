// Package console is the process-wide logger used for progress and debug
// output.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ConsoleLogger writes printf-style messages through a charm logger.
// Debug messages are dropped unless DebugLevel is above zero.
type ConsoleLogger struct {
	DebugLevel int
	out        *log.Logger
}

// Logger is the shared console logger.
var Logger = New(os.Stderr)

// New creates a console logger writing to w.
func New(w io.Writer) *ConsoleLogger {
	out := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "schemagen",
	})
	out.SetLevel(log.DebugLevel)
	return &ConsoleLogger{out: out}
}

// SetOutput redirects the logger.
func (c *ConsoleLogger) SetOutput(w io.Writer) {
	c.out.SetOutput(w)
}

// Debug logs when DebugLevel is enabled.
func (c *ConsoleLogger) Debug(format string, args ...interface{}) {
	if c.DebugLevel <= 0 {
		return
	}
	c.out.Debug(message(format, args...))
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(format string, args ...interface{}) {
	c.out.Info(message(format, args...))
}

// Warn logs a warning.
func (c *ConsoleLogger) Warn(format string, args ...interface{}) {
	c.out.Warn(message(format, args...))
}

// Error logs an error.
func (c *ConsoleLogger) Error(format string, args ...interface{}) {
	c.out.Error(message(format, args...))
}

// Printf lets the console logger serve as a Debugger.
func (c *ConsoleLogger) Printf(format string, args ...interface{}) {
	c.out.Info(message(format, args...))
}

func message(format string, args ...interface{}) string {
	return strings.TrimRight(fmt.Sprintf(format, args...), "\n")
}
