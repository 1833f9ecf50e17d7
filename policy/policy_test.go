package policy_test

import (
	"testing"

	"github.com/zostay/trample/policy"
	"github.com/zostay/trample/source"
)

// TestLogObserverAdaptsVariadicSink checks that LogObserver calls its sink
// with the detail argument present only when one was reported, matching
// the teacher's Tracer func(v ...any) calling convention.
func TestLogObserverAdaptsVariadicSink(t *testing.T) {
	var calls [][]any
	sink := func(v ...any) { calls = append(calls, v) }

	obs := policy.LogObserver(sink)
	obs(policy.StageTry, 0, source.Position(0), "")
	obs(policy.StageGot, 1, source.Position(3), "*matcher.Literal[uint8]")

	if len(calls) != 2 {
		t.Fatalf("expected 2 sink calls, got %d", len(calls))
	}
	if len(calls[0]) != 3 {
		t.Errorf("call with no detail should carry 3 args, got %d: %v", len(calls[0]), calls[0])
	}
	if len(calls[1]) != 4 {
		t.Errorf("call with detail should carry 4 args, got %d: %v", len(calls[1]), calls[1])
	}
}

// TestDeepestTrackerMark checks that Mark only ever moves the recorded
// position forward.
func TestDeepestTrackerMark(t *testing.T) {
	var d policy.DeepestTracker
	if _, has := d.Position(); has {
		t.Fatal("zero-value DeepestTracker should report no position")
	}

	d.Mark(5)
	d.Mark(2)
	d.Mark(7)
	d.Mark(3)

	pos, has := d.Position()
	if !has || pos != 7 {
		t.Errorf("position = %v (has=%v), want 7", pos, has)
	}
}
