// Package diag carries the diagnostics reported while loading declarations,
// resolving references, and expanding documentation tags.
//
// Expected authoring defects never abort a run. The component that finds one
// reports a [Record] to a [Sink] and carries on; the CLI decides afterwards
// whether the collected records fail the run.
package diag

//go:generate go tool stringer --linecomment --type Kind,Severity --output diag_string.go

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/ardnew/unitgen/log"
)

// Severity grades a [Record].
type Severity int

const (
	Info    Severity = iota // info
	Warning                 // warning
	Error                   // error
)

// Kind classifies a [Record].
type Kind int

const (
	UnresolvedReference   Kind = iota // UnresolvedReference
	TagLookupFailure                  // TagLookupFailure
	ArgumentCountError                // ArgumentCountError
	ArgumentMatchingError             // ArgumentMatchingError
	ParameterUnbound                  // ParameterUnbound
	ParameterNotArray                 // ParameterNotArray
	IndexOutOfBounds                  // IndexOutOfBounds
	MalformedInvocation               // MalformedInvocation
	NonTerminationWarning             // NonTerminationWarning
	UnknownParameter                  // UnknownParameter
	ArgumentRescued                   // ArgumentRescued
	InvalidDeclaration                // InvalidDeclaration
	NameMismatch                      // NameMismatch
	InvalidFormula                    // InvalidFormula
	SourceUnreadable                  // SourceUnreadable
)

// Record is a single diagnostic.
// Subject fields that do not apply are left empty.
type Record struct {
	Severity Severity
	Kind     Kind
	Message  string
	Tag      string
	Param    string
	Entity   string
	Source   string
}

// LogValue implements [slog.LogValuer].
func (r Record) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", r.Kind.String()),
		slog.String("severity", r.Severity.String()),
	}

	for _, field := range []struct{ key, val string }{
		{"entity", r.Entity},
		{"tag", r.Tag},
		{"param", r.Param},
		{"source", r.Source},
	} {
		if field.val != "" {
			attrs = append(attrs, slog.String(field.key, field.val))
		}
	}

	return slog.GroupValue(attrs...)
}

// Sentinel returns the visible error token substituted into generated text
// in place of a defect of kind k, for example "!!TagLookupFailure(Summary)!!".
func Sentinel(k Kind, subject string) string {
	return SentinelOpen + k.String() + "(" + subject + ")" + SentinelClose
}

// Delimiters of a [Sentinel] token.
const (
	SentinelOpen  = "!!"
	SentinelClose = "!!"
)

// Sink receives diagnostics. Implementations must be safe for concurrent use.
type Sink interface {
	Report(r Record)
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(Record)

// Report implements [Sink].
func (f SinkFunc) Report(r Record) { f(r) }

// Discard is a [Sink] that drops every record.
var Discard Sink = SinkFunc(func(Record) {}) //nolint:gochecknoglobals

// Collector is a [Sink] that retains every record in report order.
// The zero value is ready to use.
type Collector struct {
	mu      sync.Mutex
	records []Record
}

// Report implements [Sink].
func (c *Collector) Report(r Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append(c.records, r)
}

// Records returns a copy of the retained records.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.records)
}

// Count returns the number of retained records with severity s.
func (c *Collector) Count(s Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0

	for _, r := range c.records {
		if r.Severity == s {
			n++
		}
	}

	return n
}

// Kinds returns the number of retained records of each kind.
func (c *Collector) Kinds() map[Kind]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := make(map[Kind]int)
	for _, r := range c.records {
		m[r.Kind]++
	}

	return m
}

// Reset discards all retained records.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = nil
}

// LogSink returns a [Sink] that writes every record to logger, at Warn level
// for warnings, Error level for errors, and Info level otherwise.
func LogSink(logger log.Logger) Sink {
	return SinkFunc(func(r Record) {
		attr := slog.Any("diagnostic", r)

		switch r.Severity {
		case Error:
			logger.Error(r.Message, attr)
		case Warning:
			logger.Warn(r.Message, attr)
		default:
			logger.Info(r.Message, attr)
		}
	})
}

// Tee returns a [Sink] that forwards every record to each non-nil sink.
func Tee(sinks ...Sink) Sink {
	sinks = slices.DeleteFunc(slices.Clone(sinks), func(s Sink) bool {
		return s == nil
	})

	return SinkFunc(func(r Record) {
		for _, s := range sinks {
			s.Report(r)
		}
	})
}

// Or returns s, or [Discard] if s is nil.
func Or(s Sink) Sink {
	if s == nil {
		return Discard
	}

	return s
}
