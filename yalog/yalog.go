// Package yalog provides the structured logging interface used throughout
// yacli. It is grounded on gwcli's ingest/log.IngestLogger shape: leveled
// Errorf/Warnf/Infof plus a key/value flavor built on RFC 5424 structured
// data, so engine diagnostics can be routed to a syslog-shaped sink without
// the engine knowing anything about the transport.
package yalog

import (
	"fmt"

	"github.com/crewjam/rfc5424"
)

// Logger is the logging surface the engine and its subpackages depend on.
// A nil Logger is never passed around internally; use NoLogger() instead.
type Logger interface {
	Errorf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})

	Error(msg string, params ...rfc5424.SDParam)
	Warn(msg string, params ...rfc5424.SDParam)
	Info(msg string, params ...rfc5424.SDParam)
}

// KV builds a structured key/value log parameter.
func KV(key string, value interface{}) rfc5424.SDParam {
	return rfc5424.SDParam{Name: key, Value: fmt.Sprint(value)}
}

// KVErr builds a structured "err" log parameter.
func KVErr(err error) rfc5424.SDParam {
	if err == nil {
		return rfc5424.SDParam{Name: "err", Value: "<nil>"}
	}
	return rfc5424.SDParam{Name: "err", Value: err.Error()}
}

type nilLogger struct{}

func (nilLogger) Errorf(string, ...interface{})    {}
func (nilLogger) Warnf(string, ...interface{})     {}
func (nilLogger) Infof(string, ...interface{})     {}
func (nilLogger) Error(string, ...rfc5424.SDParam) {}
func (nilLogger) Warn(string, ...rfc5424.SDParam)  {}
func (nilLogger) Info(string, ...rfc5424.SDParam)  {}

// NoLogger returns a Logger that discards everything, for embedders that do
// not care to observe engine diagnostics.
func NoLogger() Logger {
	return nilLogger{}
}

// Writer is a minimal rfc5424-flavored logger that writes formatted lines to
// an underlying io.Writer-like sink via a print func. It is intentionally
// small: yacli does not need syslog framing, only leveled, structured lines
// an embedder can forward however it likes.
type Writer struct {
	print func(line string)
	level Level
}

// Level is a logging verbosity threshold.
type Level int

const (
	ERROR Level = iota
	WARN
	INFO
)

// NewWriter returns a Logger that formats each record as a single line and
// hands it to print. Records below level are discarded.
func NewWriter(level Level, print func(line string)) *Writer {
	return &Writer{print: print, level: level}
}

func (w *Writer) emit(lvl Level, tag, msg string) {
	if w == nil || w.print == nil || lvl > w.level {
		return
	}
	w.print(fmt.Sprintf("%s: %s", tag, msg))
}

func (w *Writer) Errorf(format string, args ...interface{}) {
	w.emit(ERROR, "ERROR", fmt.Sprintf(format, args...))
}

func (w *Writer) Warnf(format string, args ...interface{}) {
	w.emit(WARN, "WARN", fmt.Sprintf(format, args...))
}

func (w *Writer) Infof(format string, args ...interface{}) {
	w.emit(INFO, "INFO", fmt.Sprintf(format, args...))
}

func (w *Writer) Error(msg string, params ...rfc5424.SDParam) {
	w.emit(ERROR, "ERROR", withParams(msg, params))
}

func (w *Writer) Warn(msg string, params ...rfc5424.SDParam) {
	w.emit(WARN, "WARN", withParams(msg, params))
}

func (w *Writer) Info(msg string, params ...rfc5424.SDParam) {
	w.emit(INFO, "INFO", withParams(msg, params))
}

func withParams(msg string, params []rfc5424.SDParam) string {
	if len(params) == 0 {
		return msg
	}
	for _, p := range params {
		msg += fmt.Sprintf(" %s=%q", p.Name, p.Value)
	}
	return msg
}
