// Package emit provides the level-gated structured log emitter. An Emitter is
// a plain value constructed by its caller; there is no package-level default,
// and independently configured emitters can coexist.
package emit

import (
	"time"

	"lumen/internal/level"
	"lumen/internal/normalize"
	"lumen/internal/record"
)

// FormatFunc turns a record into one line of output text. The default is the
// ordered single-line JSON encoding from the record package.
type FormatFunc func(record.Record, normalize.Func) (string, error)

// Emitter gates, builds, serializes, and writes log records. Configuration is
// fixed at construction.
type Emitter struct {
	min        level.Severity
	timestamps bool
	format     FormatFunc
	normalize  normalize.Func
	out        Sink
	clock      func() time.Time
}

// Option adjusts an Emitter during New.
type Option func(*Emitter)

// WithMinLevel suppresses every level ranking below min. Unrecognized values
// suppress nothing.
func WithMinLevel(min level.Severity) Option {
	return func(e *Emitter) { e.min = min }
}

// WithTimestamps toggles the timestamp field. Disabled means the key is
// absent from the wire format, not null.
func WithTimestamps(enabled bool) Option {
	return func(e *Emitter) { e.timestamps = enabled }
}

// WithFormat replaces wire-format production wholesale.
func WithFormat(fn FormatFunc) Option {
	return func(e *Emitter) { e.format = fn }
}

// WithNormalizer replaces the per-value serialization hook. The default rules
// no longer apply except where fn chooses to delegate to normalize.Default.
func WithNormalizer(fn normalize.Func) Option {
	return func(e *Emitter) { e.normalize = fn }
}

// WithClock replaces the timestamp source, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Emitter) { e.clock = clock }
}

// New builds an Emitter writing to out. Defaults: every level enabled,
// timestamps on, JSON format, normalize.Default hook, wall clock.
func New(out Sink, opts ...Option) *Emitter {
	e := &Emitter{
		min:        level.Trace,
		timestamps: true,
		format:     record.Encode,
		normalize:  normalize.Default,
		out:        out,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Trace emits a record at trace severity.
func (e *Emitter) Trace(namespace, message string, ctx map[string]any) error {
	return e.emit(level.Trace, namespace, message, ctx)
}

// Debug emits a record at debug severity.
func (e *Emitter) Debug(namespace, message string, ctx map[string]any) error {
	return e.emit(level.Debug, namespace, message, ctx)
}

// Info emits a record at info severity.
func (e *Emitter) Info(namespace, message string, ctx map[string]any) error {
	return e.emit(level.Info, namespace, message, ctx)
}

// Warn emits a record at warn severity.
func (e *Emitter) Warn(namespace, message string, ctx map[string]any) error {
	return e.emit(level.Warn, namespace, message, ctx)
}

// Error emits a record at error severity.
func (e *Emitter) Error(namespace, message string, ctx map[string]any) error {
	return e.emit(level.Error, namespace, message, ctx)
}

// Fatal emits a record at fatal severity. It does not terminate the process;
// that decision belongs to the caller.
func (e *Emitter) Fatal(namespace, message string, ctx map[string]any) error {
	return e.emit(level.Fatal, namespace, message, ctx)
}

// Emit writes one record at an arbitrary severity. Severities outside the six
// rank below trace and are dropped unless the minimum is itself unrecognized.
func (e *Emitter) Emit(s level.Severity, namespace, message string, ctx map[string]any) error {
	return e.emit(s, namespace, message, ctx)
}

func (e *Emitter) emit(s level.Severity, namespace, message string, ctx map[string]any) error {
	if !level.Enabled(e.min, s) {
		return nil
	}

	rec := record.Record{
		Level:     s,
		LevelN:    level.Rank(s),
		Namespace: namespace,
		Message:   message,
		Context:   ctx,
	}
	if e.timestamps {
		rec.Timestamp = e.clock().UTC().Format(time.RFC3339)
	}

	// Formatter and normalizer failures are caller configuration bugs;
	// surface them instead of masking.
	line, err := e.format(rec, e.normalize)
	if err != nil {
		return err
	}
	return e.out.WriteLine(line)
}
