// Package logging wraps github.com/op/go-logging into the process-wide
// leveled logger the cmd and scene packages log through (§4.13). It is
// configured by the CLI before any render starts and never mutated
// while a render is in flight (§5's "global state" note).
package logging

import (
	"io"
	"os"

	"github.com/op/go-logging"
)

// Level mirrors logging.Level so callers outside this package never
// import go-logging directly.
type Level logging.Level

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var format = logging.MustStringFormatter(
	`%{color}[%{time:15:04:05.000}] [%{module}] [%{level}]%{color:reset} %{message}`,
)

var leveledBackend logging.LeveledBackend

// Logger is the interface the cmd and scene packages log through; geometry validation failures (§7 kind 2) log at Error with
// the offending shape/instance identity.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New creates a named logger; module names show up in the configured
// format string's %{module} field, so a separate logger per package
// (cmd, scene) is useful even though they all share one
// backend/level.
func New(name string) Logger {
	return logging.MustGetLogger(name)
}

// SetSink overrides the backend output stream.
func SetSink(sink io.Writer) {
	backend := logging.NewLogBackend(sink, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveledBackend = logging.AddModuleLevel(formatted)
	leveledBackend.SetLevel(logging.INFO, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel sets the process-wide minimum log level.
func SetLevel(level Level) {
	var l logging.Level
	switch level {
	case Debug:
		l = logging.DEBUG
	case Info:
		l = logging.INFO
	case Notice:
		l = logging.NOTICE
	case Warning:
		l = logging.WARNING
	case Error:
		l = logging.ERROR
	}
	leveledBackend.SetLevel(l, "")
}

func init() {
	SetSink(os.Stdout)
	SetLevel(Notice)
}
