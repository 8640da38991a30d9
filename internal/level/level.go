// Package level defines the closed, ordered set of log severities shared by
// the emitter and the renderer, plus the rank comparisons used for gating.
package level

import "strings"

// Severity is one of the six recognized log levels.
type Severity string

const (
	Trace Severity = "trace"
	Debug Severity = "debug"
	Info  Severity = "info"
	Warn  Severity = "warn"
	Error Severity = "error"
	Fatal Severity = "fatal"
)

var ranks = map[Severity]int{
	Trace: 0,
	Debug: 1,
	Info:  2,
	Warn:  3,
	Error: 4,
	Fatal: 5,
}

var tags = map[Severity]string{
	Trace: "TRACE > ",
	Debug: "DEBUG > ",
	Info:  " INFO > ",
	Warn:  " WARN > ",
	Error: "ERROR > ",
	Fatal: "FATAL > ",
}

// All returns the severities in ascending rank order.
func All() []Severity {
	return []Severity{Trace, Debug, Info, Warn, Error, Fatal}
}

// Rank returns the integer rank of s, 0 (trace) through 5 (fatal).
// Unrecognized severities rank -1, below every defined level.
func Rank(s Severity) int {
	if r, ok := ranks[s]; ok {
		return r
	}
	return -1
}

// Enabled reports whether a log at severity s passes a configured minimum.
// An unrecognized minimum ranks below trace, so it enables every level;
// silently dropping all output over a typo would be worse than dropping none.
func Enabled(min, s Severity) bool {
	return Rank(s) >= Rank(min)
}

// Tag returns the fixed-width console label for s. All six tags have equal
// width so level columns align. Unrecognized severities have no tag.
func Tag(s Severity) string {
	return tags[s]
}

// Parse converts a level name to a Severity, ignoring case and surrounding
// whitespace. The second return is false when the name is not one of the six.
func Parse(name string) (Severity, bool) {
	s := Severity(strings.ToLower(strings.TrimSpace(name)))
	_, ok := ranks[s]
	return s, ok
}
