// Package policy is the pluggable execution-strategy axis: several
// implementations of trampoline.Policy, each driving the same matcher
// catalogue with different tradeoffs (verbatim dispatch, memoization,
// Parsec-like cut semantics, or tracing another policy's dispatches).
package policy

import "github.com/zostay/trample/source"

// Stage identifies which phase of a dispatch an Observer is being told
// about, reusing the teacher's TRY/GOT/ERR vocabulary
// (_examples/zostay-gordy/parser/input.go's Stage enum).
type Stage int

const (
	// StageTry is reported when a matcher is about to be entered or
	// resumed.
	StageTry Stage = iota
	// StageGot is reported when a matcher transition produced Success.
	StageGot
	// StageFail is reported when a matcher transition produced Failure.
	StageFail
)

func (s Stage) String() string {
	switch s {
	case StageTry:
		return "TRY"
	case StageGot:
		return "GOT"
	case StageFail:
		return "ERR"
	default:
		return "?"
	}
}

// Observer is invoked by Tracing on every dispatch. detail is a short,
// implementation-defined description (e.g. a matcher's type name);
// observers must not retain or mutate anything they are passed.
type Observer func(stage Stage, depth int, pos source.Position, detail string)

// DeepestTracker records the furthest position any policy has attempted
// to enter or resume a matcher at, for attaching to a ParseFailure
// outcome. NonMemoizing, Memoizing and RestrictedBacktracking each hold one
// in their Deepest field and call Mark on each Execute they dispatch;
// Tracing holds none and forwards to its base policy.
type DeepestTracker struct {
	pos source.Position
	has bool
}

// Mark records pos if it is further than anything seen so far.
func (d *DeepestTracker) Mark(pos source.Position) {
	if !d.has || pos > d.pos {
		d.pos = pos
		d.has = true
	}
}

// Position reports the deepest position marked, if any.
func (d *DeepestTracker) Position() (source.Position, bool) {
	return d.pos, d.has
}
