// Package report defines the message sink every engine operation writes its
// human-readable status and error lines to.
//
// Engine operations never fail past their own boundary: failures become Error
// events on the sink and the operation returns normally. Callers that need an
// exit code wrap their sink in a Recorder and inspect the error count
// afterwards.
package report

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
)

// Kind classifies a sink event.
type Kind int

const (
	// Info events describe progress and successful steps.
	Info Kind = iota
	// Error events describe failures: store, transport, application or data
	// errors surfaced by an operation.
	Error
)

// String returns the lowercase label for a kind.
func (k Kind) String() string {
	if k == Error {
		return "error"
	}
	return "info"
}

// Sink receives status and error messages from engine operations.
type Sink interface {
	Report(kind Kind, message string)
}

// Func adapts a plain function to the Sink interface.
type Func func(kind Kind, message string)

// Report implements Sink.
func (f Func) Report(kind Kind, message string) {
	f(kind, message)
}

// Infof reports a formatted Info event to sink.
func Infof(sink Sink, format string, args ...any) {
	sink.Report(Info, fmt.Sprintf(format, args...))
}

// Errorf reports a formatted Error event to sink.
func Errorf(sink Sink, format string, args ...any) {
	sink.Report(Error, fmt.Sprintf(format, args...))
}

// Discard is a sink that drops every event.
var Discard Sink = Func(func(Kind, string) {})

// writerSink writes one line per event to an io.Writer.
type writerSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink returns a sink that writes "error: <msg>" or "<msg>" lines
// to w. Safe for use from a single operation at a time.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Report(kind Kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if kind == Error {
		fmt.Fprintf(s.w, "error: %s\n", message)
		return
	}
	fmt.Fprintln(s.w, message)
}

// zapSink forwards events to a zap logger.
type zapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a sink that logs Info events at info level and Error
// events at error level.
func NewZapSink(logger *zap.Logger) Sink {
	return &zapSink{logger: logger}
}

func (s *zapSink) Report(kind Kind, message string) {
	if kind == Error {
		s.logger.Error(message)
		return
	}
	s.logger.Info(message)
}

// Multi returns a sink that forwards every event to each of sinks in order.
func Multi(sinks ...Sink) Sink {
	return Func(func(kind Kind, message string) {
		for _, s := range sinks {
			s.Report(kind, message)
		}
	})
}

// Recorder wraps another sink and counts events by kind. It also keeps the
// error messages, which front ends use for summaries and tests use for
// assertions.
type Recorder struct {
	next Sink

	mu     sync.Mutex
	infos  int
	errors []string
}

// NewRecorder returns a Recorder forwarding to next. A nil next discards.
func NewRecorder(next Sink) *Recorder {
	if next == nil {
		next = Discard
	}
	return &Recorder{next: next}
}

// Report implements Sink.
func (r *Recorder) Report(kind Kind, message string) {
	r.mu.Lock()
	if kind == Error {
		r.errors = append(r.errors, message)
	} else {
		r.infos++
	}
	r.mu.Unlock()
	r.next.Report(kind, message)
}

// ErrorCount returns the number of Error events seen.
func (r *Recorder) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// Errors returns a copy of the Error messages seen, in order.
func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.errors))
	copy(out, r.errors)
	return out
}
