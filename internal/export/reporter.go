package export

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Reporter receives human-readable progress messages from an export.
type Reporter interface {
	Record(message string)
}

// ReporterFunc adapts a plain function to a Reporter.
type ReporterFunc func(message string)

func (f ReporterFunc) Record(message string) {
	f(message)
}

// NopReporter discards every message.
var NopReporter Reporter = ReporterFunc(func(string) {})

// LogReporter forwards messages to a zerolog logger at a fixed level.
type LogReporter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func NewLogReporter(logger zerolog.Logger, level zerolog.Level) *LogReporter {
	return &LogReporter{
		logger: logger,
		level:  level,
	}
}

func (r *LogReporter) Record(message string) {
	r.logger.WithLevel(r.level).Str("component", "reporter").Msg(message)
}

// WriterReporter writes one line per message, like a log pane.
type WriterReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (r *WriterReporter) Record(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, message)
}

// MultiReporter fans each message out to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Record(message string) {
	for _, r := range m {
		if r != nil {
			r.Record(message)
		}
	}
}
